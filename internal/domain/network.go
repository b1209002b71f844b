package domain

// EnsureChain fails with a NetworkMismatchError when the wallet's active
// chain differs from the deployment target.
func EnsureChain(current, target uint64) error {
	if current != target {
		return &NetworkMismatchError{Current: current, Target: target}
	}
	return nil
}
