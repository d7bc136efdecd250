package nodes

import (
	"context"
	"log/slog"

	"github.com/aretw0/arbor/pkg/bt"
	"github.com/aretw0/arbor/pkg/domain"
)

const PortMessage = "message"

// Log writes the "message" port to the logger and succeeds.
type Log struct {
	bt.Base
	logger *slog.Logger
}

func NewLog(name string, cfg bt.NodeConfig, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Log{Base: bt.NewBase(name, bt.KindAction, cfg), logger: logger}
	n.SetRegistrationID("Log")
	return n
}

func (n *Log) Tick(ctx context.Context) (domain.Status, error) {
	msg, err := bt.GetInput[string](n, PortMessage)
	if err != nil {
		return domain.StatusIdle, err
	}
	n.logger.InfoContext(ctx, msg, "node", n.Name())
	return domain.StatusSuccess, nil
}

func (n *Log) Halt() {}
