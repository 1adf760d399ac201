package watch

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// KV is the injected storage abstraction for watch specifications, keyed by
// canonical content key. SetNX is the atomicity primitive: it must store the
// spec only if the key is absent and report whether it did, so concurrent
// upserts against the same key can never produce duplicates.
type KV interface {
	Get(ctx context.Context, key string) (*store.WatchSpec, bool, error)
	SetNX(ctx context.Context, key string, spec *store.WatchSpec) (stored bool, err error)
	Has(ctx context.Context, key string) (bool, error)
	List(ctx context.Context) ([]*store.WatchSpec, error)
}

// Keeper provides idempotent watch creation over any KV backend.
type Keeper struct {
	kv KV
}

func NewKeeper(kv KV) *Keeper {
	return &Keeper{kv: kv}
}

// Ensure persists the spec if no entry with the same content key exists.
// A second identical request returns the existing spec with created=false.
func (k *Keeper) Ensure(ctx context.Context, spec store.WatchSpec) (*store.WatchSpec, bool, error) {
	if spec.Key == "" {
		spec.Key = ContentKey(spec.GoalType, store.Boundary{
			Tier1:          spec.MustHave,
			Tier2:          spec.Acceptable,
			HardRejections: spec.Reject,
		}, spec.Sources)
	}
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}

	stored, err := k.kv.SetNX(ctx, spec.Key, &spec)
	if err != nil {
		return nil, false, fmt.Errorf("watch upsert: %w", err)
	}
	if stored {
		return &spec, true, nil
	}

	existing, found, err := k.kv.Get(ctx, spec.Key)
	if err != nil {
		return nil, false, fmt.Errorf("watch lookup: %w", err)
	}
	if !found {
		// Lost a race against a delete; retry the insert once.
		if stored, err = k.kv.SetNX(ctx, spec.Key, &spec); err == nil && stored {
			return &spec, true, nil
		}
		return nil, false, fmt.Errorf("watch upsert: key vanished during ensure")
	}
	return existing, false, nil
}

// Get returns the spec stored under the content key, if any.
func (k *Keeper) Get(ctx context.Context, key string) (*store.WatchSpec, bool, error) {
	return k.kv.Get(ctx, key)
}

// List returns every stored watch specification.
func (k *Keeper) List(ctx context.Context) ([]*store.WatchSpec, error) {
	return k.kv.List(ctx)
}

// ContentKey derives the canonical content key: an order-sensitive, field-
// tagged serialization of goal type, boundary and sources, hashed for use as
// a storage key. The same semantic content always serializes identically.
func ContentKey(goalType string, b store.Boundary, sources []string) string {
	var sb strings.Builder
	sb.WriteString("goal=")
	sb.WriteString(strings.ToLower(strings.TrimSpace(goalType)))
	sb.WriteString("\nt1=")
	sb.WriteString(joinNormalized(b.Tier1))
	sb.WriteString("\nt2=")
	sb.WriteString(joinNormalized(b.Tier2))
	sb.WriteString("\nrej=")
	sb.WriteString(joinNormalized(b.HardRejections))
	sb.WriteString("\nsrc=")
	sb.WriteString(joinNormalized(sources))
	return fmt.Sprintf("%x", md5.Sum([]byte(sb.String())))
}

func joinNormalized(items []string) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		s := strings.Join(strings.Fields(strings.ToLower(it)), " ")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ";")
}

// FromBoundary builds the monitoring specification for a canonical boundary:
// must_have mirrors tier1, acceptable tier2, reject the hard rejections.
func FromBoundary(goalType string, b store.Boundary, sources []string) store.WatchSpec {
	spec := store.WatchSpec{
		GoalType:   goalType,
		MustHave:   append([]string(nil), b.Tier1...),
		Acceptable: append([]string(nil), b.Tier2...),
		Reject:     append([]string(nil), b.HardRejections...),
		Sources:    append([]string(nil), sources...),
	}
	spec.Key = ContentKey(goalType, b, sources)
	return spec
}
