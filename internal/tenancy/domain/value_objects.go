package domain

type ID string

func (vo ID) String() string {
	return string(vo)
}

// ProvisioningStatus tracks where a tenant sits in its provisioning lifecycle.
// Partial failures during deprovisioning are persisted as StatusDegraded so the
// reconciliation worker can finish the cleanup later.
type ProvisioningStatus string

const (
	StatusPending     ProvisioningStatus = "pending"
	StatusProvisioned ProvisioningStatus = "provisioned"
	StatusDestroying  ProvisioningStatus = "destroying"
	StatusDegraded    ProvisioningStatus = "degraded"
)

func (vo ProvisioningStatus) String() string {
	return string(vo)
}
