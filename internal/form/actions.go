// internal/form/actions.go
//
// Forms subsystem: post-submit actions.
//
// Context
//   A FormDef lists the actions run after validation.  ExecuteActions
//   dispatches each to its runner in declaration order.  "store" persists
//   the lead and is the only action whose failure reaches the visitor; a
//   "log" failure, or an unknown action, is logged and skipped.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/tierzero/internal/lead"
	"github.com/yanizio/tierzero/internal/logger"
)

// Saver persists leads.  *lead.Store satisfies it.
type Saver interface {
	Create(ctx context.Context, l *lead.Lead) (string, error)
}

// ActionCtx carries request-scoped helpers for action execution.
type ActionCtx struct {
	Ctx   context.Context
	Saver Saver
}

// ExecuteActions performs every declared action for l.
func ExecuteActions(fd *FormDef, l *lead.Lead, actx ActionCtx) error {
	for _, ac := range fd.Actions {
		switch ac.Type {
		case "store":
			if err := runStore(l, actx); err != nil {
				logErr(actx, fd.ID, "store", err)
				return err
			}
		case "log":
			runLog(fd, l, actx)
		default:
			logger.FromContext(actx.Ctx).Warn("unsupported form action",
				zap.String("form", fd.ID), zap.String("action", ac.Type))
		}
	}
	return nil
}

func runStore(l *lead.Lead, actx ActionCtx) error {
	if actx.Saver == nil {
		return fmt.Errorf("no lead store configured")
	}
	_, err := actx.Saver.Create(actx.Ctx, l)
	return err
}

func runLog(fd *FormDef, l *lead.Lead, actx ActionCtx) {
	logger.FromContext(actx.Ctx).Info("form submitted",
		zap.String("form", fd.ID),
		zap.String("domain", l.Domain),
		zap.String("lead_id", l.ID),
		zap.String("lead_type", string(l.Type)))
}

func logErr(actx ActionCtx, formID, action string, err error) {
	logger.FromContext(actx.Ctx).Error("form action failed",
		zap.String("form", formID), zap.String("action", action), zap.Error(err))
}
