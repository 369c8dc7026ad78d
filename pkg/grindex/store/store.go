package store

import "context"

// Store is the persistence interface for grinder calibration data.
// Implementations must make both upserts idempotent: grinders are keyed by
// name, brew methods by (grinder, method name). Deleting a grinder removes
// its brew methods.
type Store interface {
	Close() error

	UpsertGrinder(ctx context.Context, g Grinder) (int64, error)
	GetGrinder(ctx context.Context, id int64) (Grinder, error)
	FindGrinder(ctx context.Context, nameSubstring string) (Grinder, bool, error)
	ListGrinders(ctx context.Context) ([]Grinder, error)
	DeleteGrinder(ctx context.Context, id int64) error

	UpsertBrewMethod(ctx context.Context, m BrewMethod) (int64, error)
	BrewMethodsOf(ctx context.Context, grinderID int64) ([]BrewMethod, error)
}

// Grinder is one grinder model's calibration record. The micron bounds are
// optional: a grinder may be persisted before its range is known.
type Grinder struct {
	ID         int64
	Name       string
	MinMicrons *float64
	MaxMicrons *float64
	URL        string
}

// BrewMethod is one brew method's row for a grinder. Settings are persisted
// as strings regardless of format, to accommodate compound notation.
type BrewMethod struct {
	ID            int64
	GrinderID     int64
	MethodName    string
	StartMicrons  *float64
	EndMicrons    *float64
	StartSetting  *string
	EndSetting    *string
	SettingFormat string // "simple" or "compound"
	GrindCategory string
}
