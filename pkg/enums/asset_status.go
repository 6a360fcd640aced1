package enums

import "fmt"

// AssetStatus represents the canonical asset_status enum in Postgres.
type AssetStatus string

const (
	AssetStatusNew         AssetStatus = "new"
	AssetStatusUsed        AssetStatus = "used"
	AssetStatusTesting     AssetStatus = "testing"
	AssetStatusFaulty      AssetStatus = "faulty"
	AssetStatusUnderRepair AssetStatus = "under_repair"
	AssetStatusDisposed    AssetStatus = "disposed"
)

var validAssetStatuses = []AssetStatus{
	AssetStatusNew,
	AssetStatusUsed,
	AssetStatusTesting,
	AssetStatusFaulty,
	AssetStatusUnderRepair,
	AssetStatusDisposed,
}

// String implements fmt.Stringer.
func (s AssetStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AssetStatus.
func (s AssetStatus) IsValid() bool {
	for _, candidate := range validAssetStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further custody transition leaves this status.
func (s AssetStatus) IsTerminal() bool {
	return s == AssetStatusDisposed
}

// IsCollectible reports whether an unassigned asset in this status may be collected.
func (s AssetStatus) IsCollectible() bool {
	switch s {
	case AssetStatusNew, AssetStatusUsed, AssetStatusTesting:
		return true
	default:
		return false
	}
}

// IsReturnCondition reports whether the value may be declared as the condition
// of a returned asset.
func (s AssetStatus) IsReturnCondition() bool {
	switch s {
	case AssetStatusNew, AssetStatusUsed, AssetStatusFaulty, AssetStatusUnderRepair:
		return true
	default:
		return false
	}
}

// IsIntakeStatus reports whether a newly created asset may start in this status.
func (s AssetStatus) IsIntakeStatus() bool {
	return s == AssetStatusNew || s == AssetStatusUsed
}

// ParseAssetStatus converts raw input into an AssetStatus.
func ParseAssetStatus(value string) (AssetStatus, error) {
	for _, candidate := range validAssetStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid asset status %q", value)
}
