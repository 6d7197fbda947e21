package strategy

import "errors"

// ErrNilSnapshotGroups indicates a Resize call with an uninitialized snapshot.
var ErrNilSnapshotGroups = errors.New("snapshot has no initialized groups")
