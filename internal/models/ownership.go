package models

// Owned is implemented by every resource that belongs to exactly one user.
type Owned interface {
	OwnerIdentity() string
}

// ActorOwns reports whether actorID may mutate resource. It is the only
// ownership rule in the API: the actor must be the resource's owner.
func ActorOwns(resource Owned, actorID string) bool {
	if resource == nil || actorID == "" {
		return false
	}
	return resource.OwnerIdentity() == actorID
}

func (v *Video) OwnerIdentity() string    { return v.OwnerID }
func (c *Comment) OwnerIdentity() string  { return c.OwnerID }
func (t *Tweet) OwnerIdentity() string    { return t.OwnerID }
func (p *Playlist) OwnerIdentity() string { return p.OwnerID }
