package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSample           = errors.New("no biometric sample on file, upload photo and audio samples first")
	ErrNoFaceDetected     = errors.New("no face detected in the photo")
	ErrFaceUnavailable    = errors.New("face verification service is not configured")
	ErrInterviewFinalized = errors.New("interview is already finalized")
	ErrNotFinalized       = errors.New("interview not completed or terminated yet")
)
