package types

// DeviceGroupKeys is the derived key schedule rooted at the DeviceGroupKey
// (DGK). It is computed once per process by crypto.DeriveDeviceGroupKeys and
// never persisted; only the DGK itself is written to disk (as part of
// Identity).
type DeviceGroupKeys struct {
	// DGPK is the authentication keypair used against the mediator.
	DGPKSecret X25519Private
	DGPKPublic X25519Public

	// DGRK is the reflection envelope key.
	DGRK SymmetricKey

	// DGDIK, DGSDDK and DGTSK are the device-info, shared-device-data and
	// transaction-scope keys respectively.
	DGDIK  SymmetricKey
	DGSDDK SymmetricKey
	DGTSK  SymmetricKey
}
