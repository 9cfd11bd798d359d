package models

// Identity is the resolved caller passed explicitly into every service operation.
// FamilyID is zero when the user has not joined a family yet.
type Identity struct {
	UserID   int64
	FamilyID int64
	Email    string
	Persona  Persona
	IsAdmin  bool
}

// HasFamily reports whether the caller belongs to a family
func (i Identity) HasFamily() bool {
	return i.FamilyID != 0
}

// CanAccessFamily reports whether the caller may read content scoped to familyID
func (i Identity) CanAccessFamily(familyID int64) bool {
	if i.IsAdmin {
		return true
	}
	return i.HasFamily() && i.FamilyID == familyID
}

// CanModify reports whether the caller may change a row authored by ownerID
func (i Identity) CanModify(ownerID int64) bool {
	return i.IsAdmin || i.UserID == ownerID
}
