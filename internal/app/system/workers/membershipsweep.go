// internal/app/system/workers/membershipsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	collectionstore "github.com/dalemusser/flickhub/internal/app/store/collections"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SweepUsers is the identity side of the sweep (userstore.Store).
type SweepUsers interface {
	ForEachWithCollections(ctx context.Context, fn func(userID primitive.ObjectID, refs []primitive.ObjectID) error) error
	RemoveCollectionRefs(ctx context.Context, userID primitive.ObjectID, collectionIDs []primitive.ObjectID) error
	AddCollectionRefToMany(ctx context.Context, userIDs []primitive.ObjectID, collectionID primitive.ObjectID) (int64, error)
}

// SweepCollections is the collection side of the sweep (collectionstore.Store).
type SweepCollections interface {
	ForEachRelation(ctx context.Context, fn func(collectionstore.Relation) error) error
	Relations(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]collectionstore.Relation, error)
}

// SweepResult counts what one pass changed.
type SweepResult struct {
	UsersScanned       int
	RefsPruned         int
	CollectionsScanned int
	RefsRestored       int64
}

// MembershipSweep is a background worker that repairs drift between
// User.collections and Collection.owner/members left behind by sagas that
// failed halfway.
//
// Pass 1 prunes user refs whose collection is gone or no longer lists the user.
// Pass 2 restores refs missing on the owner or a member of a collection.
type MembershipSweep struct {
	users    SweepUsers
	colls    SweepCollections
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewMembershipSweep creates a new sweep worker.
//
// Parameters:
//   - users, colls: the stores to reconcile
//   - logger: zap logger for logging
//   - interval: how often to run a pass (e.g., 15 minutes)
//   - timeout: upper bound for one pass
func NewMembershipSweep(users SweepUsers, colls SweepCollections, logger *zap.Logger, interval, timeout time.Duration) *MembershipSweep {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipSweep{
		users:    users,
		colls:    colls,
		log:      logger,
		interval: interval,
		timeout:  timeout,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *MembershipSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("membership sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("timeout", w.timeout))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *MembershipSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("membership sweep worker stopped")
}

func (w *MembershipSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *MembershipSweep) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	// Cut the pass short on shutdown.
	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	res, err := w.Sweep(ctx)
	if err != nil {
		w.log.Error("membership sweep failed", zap.Error(err))
		return
	}
	if res.RefsPruned > 0 || res.RefsRestored > 0 {
		w.log.Info("membership sweep repaired refs",
			zap.Int("users_scanned", res.UsersScanned),
			zap.Int("refs_pruned", res.RefsPruned),
			zap.Int("collections_scanned", res.CollectionsScanned),
			zap.Int64("refs_restored", res.RefsRestored))
	}
}

// Sweep runs one reconciliation pass.
func (w *MembershipSweep) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult

	err := w.users.ForEachWithCollections(ctx, func(userID primitive.ObjectID, refs []primitive.ObjectID) error {
		res.UsersScanned++
		rels, err := w.colls.Relations(ctx, refs)
		if err != nil {
			return err
		}
		var stale []primitive.ObjectID
		for _, id := range refs {
			if rel, ok := rels[id]; !ok || !rel.Has(userID) {
				stale = append(stale, id)
			}
		}
		if len(stale) == 0 {
			return nil
		}
		if err := w.users.RemoveCollectionRefs(ctx, userID, stale); err != nil {
			w.log.Warn("prune refs failed",
				zap.String("user_id", userID.Hex()), zap.Error(err))
			return nil
		}
		res.RefsPruned += len(stale)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = w.colls.ForEachRelation(ctx, func(rel collectionstore.Relation) error {
		res.CollectionsScanned++
		n, err := w.users.AddCollectionRefToMany(ctx, rel.Related(), rel.ID)
		if err != nil {
			w.log.Warn("restore refs failed",
				zap.String("collection_id", rel.ID.Hex()), zap.Error(err))
			return nil
		}
		res.RefsRestored += n
		return nil
	})
	return res, err
}
