package inflate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/weaveui/weave/internal/ctxlog"
	"github.com/weaveui/weave/internal/object"
	"github.com/weaveui/weave/internal/resolve"
	"github.com/zclconf/go-cty/cty"
)

// UpdateData installs newData as the snapshot of root's data context, then
// re-resolves and re-applies exactly the attributes that were compiled as
// bindings anywhere in root's subtree. Structural relations are not
// re-created; only resolved values are refreshed. Calling UpdateData twice
// with identical data yields identical object state.
//
// Updates are serialized per root; concurrent calls against the same
// subtree block each other.
func (inf *Inflater) UpdateData(ctx context.Context, root *object.RuntimeObject, newData cty.Value) error {
	d := root.DataContext()
	if d == nil {
		return fmt.Errorf("object %s(%s) was inflated without a data context", root.TypeName, root.StableID)
	}

	muAny, _ := inf.updateLocks.LoadOrStore(root, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	replaced := d.Replace(newData)
	logger.Debug("Data context updated.", "shape_changed", replaced)

	var refreshed, missed int
	root.Walk(func(obj *object.RuntimeObject) {
		bound := obj.Bound()
		if len(bound) == 0 {
			return
		}
		env := inf.env.WithData(obj.DataContext())
		for _, b := range bound {
			if err := refreshBound(ctx, obj, b, env); err != nil {
				missed++
				logger.Warn("Bound attribute not refreshed.", "object", obj.TypeName, "attr", b.Name, "error", err)
				continue
			}
			refreshed++
		}
	})

	logger.Debug("Bound attributes refreshed.", "refreshed", refreshed, "missed", missed)
	return nil
}

// refreshBound re-runs the resolve and apply steps for one bound attribute;
// the compile step is never repeated.
func refreshBound(ctx context.Context, obj *object.RuntimeObject, b object.BoundAttribute, env *resolve.Env) error {
	rv, err := b.Handler.Resolve(ctx, b.Value, env)
	if err != nil {
		var miss *resolve.Failure
		if !errors.As(err, &miss) {
			return err
		}
		def := b.Handler.Default()
		if def == cty.NilVal {
			// No value and no default: the attribute keeps its last state.
			return nil
		}
		rv = def
	}
	return b.Handler.Apply(obj, rv)
}
