package plan

// PostAction is a compensating operation appended to the backtrack or
// finalize queue by a reconciler during execution. Backtrack actions run
// only on failure, to restore pre-run state; finalize actions run only
// on overall success, completing deferred cleanup.
type PostAction interface {
	isPostAction()
}

// DeleteContainer removes a container by runtime ID.
type DeleteContainer struct {
	ID string
}

func (DeleteContainer) isPostAction() {}

// RestartContainer starts a previously-stopped container by runtime ID.
type RestartContainer struct {
	ID string
}

func (RestartContainer) isPostAction() {}

// DeleteNetwork removes a network by runtime ID.
type DeleteNetwork struct {
	ID string
}

func (DeleteNetwork) isPostAction() {}

// DeleteVolume removes a volume by runtime name.
type DeleteVolume struct {
	Name string
}

func (DeleteVolume) isPostAction() {}
