package reconcile

import "errors"

// ErrSuffixRequired is returned when a run is started without the federated
// username domain suffix.
var ErrSuffixRequired = errors.New("reconcile options require a federated username suffix")
