package entity

// OwnerKind tells which identity owns a link.
type OwnerKind int

const (
	OwnerNone OwnerKind = iota
	OwnerUser
	OwnerFingerprint
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerUser:
		return "user"
	case OwnerFingerprint:
		return "fingerprint"
	default:
		return "none"
	}
}

// Owner is the identity a link belongs to. An authenticated user id and an
// anonymous fingerprint are never set together. A fingerprint is a
// client-generated token and proves nothing about the caller.
type Owner struct {
	kind  OwnerKind
	value string
}

// UserOwner returns an owner backed by an authenticated user id.
func UserOwner(userID string) Owner {
	if userID == "" {
		return NoOwner()
	}
	return Owner{kind: OwnerUser, value: userID}
}

// FingerprintOwner returns an owner backed by an anonymous fingerprint.
func FingerprintOwner(fingerprint string) Owner {
	if fingerprint == "" {
		return NoOwner()
	}
	return Owner{kind: OwnerFingerprint, value: fingerprint}
}

// NoOwner returns the owner of links created without any identity.
func NoOwner() Owner {
	return Owner{}
}

func (o Owner) Kind() OwnerKind {
	return o.kind
}

// UserID returns the user id and true if the owner is an authenticated user.
func (o Owner) UserID() (string, bool) {
	if o.kind != OwnerUser {
		return "", false
	}
	return o.value, true
}

// Fingerprint returns the fingerprint and true if the owner is anonymous.
func (o Owner) Fingerprint() (string, bool) {
	if o.kind != OwnerFingerprint {
		return "", false
	}
	return o.value, true
}

func (o Owner) IsNone() bool {
	return o.kind == OwnerNone
}

// Identity is the caller acting on links during a single request.
type Identity struct {
	UserID      string // UserID is set when the request carries a valid session.
	Fingerprint string // Fingerprint is passed through from the client as-is.
}

// Anonymous reports whether the caller has no authenticated session.
func (i Identity) Anonymous() bool {
	return i.UserID == ""
}

// Owner returns the owner new links get when created by this identity:
// the user if authenticated, else the fingerprint, else none.
func (i Identity) Owner() Owner {
	if i.UserID != "" {
		return UserOwner(i.UserID)
	}
	return FingerprintOwner(i.Fingerprint)
}
