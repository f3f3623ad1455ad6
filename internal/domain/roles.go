package domain

// SeriesRole tags how a column is interpreted by the feature pipeline.
type SeriesRole string

// Series roles.
const (
	RolePrimaryPrice   SeriesRole = "PRIMARY_PRICE"
	RoleAuxiliaryPrice SeriesRole = "AUXILIARY_PRICE"
	RoleVolume         SeriesRole = "VOLUME"
	RoleVolatilityIdx  SeriesRole = "VOLATILITY_INDEX"
	RoleIndicator      SeriesRole = "ECONOMIC_INDICATOR"
	RoleDerived        SeriesRole = "DERIVED_FEATURE"
)
