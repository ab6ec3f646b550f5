package proctor

import "strings"

// FaceReason is the closed vocabulary of verdicts the face verifier may
// return. Anything the verifier emits outside this set is a contract bug;
// ParseFaceReason maps unknown strings to FaceError, which is non-violating.
type FaceReason string

const (
	FaceMatch     FaceReason = "match"
	FaceNoFace    FaceReason = "no_face"
	FaceDifferent FaceReason = "different_face"
	FaceExpiredID FaceReason = "expired_face_id"
	FaceBypass    FaceReason = "bypass"
	FaceError     FaceReason = "error"
)

// ParseFaceReason normalizes a raw reason string into the closed enum.
func ParseFaceReason(raw string) FaceReason {
	switch FaceReason(strings.TrimSpace(strings.ToLower(raw))) {
	case FaceMatch:
		return FaceMatch
	case FaceNoFace:
		return FaceNoFace
	case FaceDifferent:
		return FaceDifferent
	case FaceExpiredID:
		return FaceExpiredID
	case FaceBypass:
		return FaceBypass
	default:
		return FaceError
	}
}

// Violation reports whether the reason counts against the candidate.
// Ambiguous or degraded verdicts (bypass, expired id, error) never do:
// third-party flakiness must not penalize a candidate.
func (r FaceReason) Violation() bool {
	return r == FaceNoFace || r == FaceDifferent
}

// ViolationType labels the kind of violation recorded on a poll, or the
// reason an interview was force-terminated.
type ViolationType string

const (
	ViolationNone      ViolationType = ""
	ViolationFace      ViolationType = "face_violation"
	ViolationAudio     ViolationType = "audio_violation"
	ViolationTabSwitch ViolationType = "tab_switch"
)

// Human returns the user-facing form, e.g. "face violation".
func (v ViolationType) Human() string {
	return strings.ReplaceAll(string(v), "_", " ")
}
