package nakama

import (
	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// runtimeCore is a zapcore.Core that writes into the Nakama runtime logger,
// so the shared game code logs through the server's own sink.
type runtimeCore struct {
	zapcore.LevelEnabler
	logger runtime.Logger
	fields []zapcore.Field
}

func newZapLogger(logger runtime.Logger) *zap.Logger {
	return zap.New(&runtimeCore{LevelEnabler: zapcore.DebugLevel, logger: logger})
}

func (c *runtimeCore) With(fields []zapcore.Field) zapcore.Core {
	return &runtimeCore{
		LevelEnabler: c.LevelEnabler,
		logger:       c.logger,
		fields:       append(append([]zapcore.Field(nil), c.fields...), fields...),
	}
}

func (c *runtimeCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *runtimeCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	logger := c.logger
	if len(enc.Fields) > 0 {
		logger = logger.WithFields(enc.Fields)
	}
	msg := ent.Message
	if ent.LoggerName != "" {
		msg = ent.LoggerName + ": " + msg
	}

	switch {
	case ent.Level <= zapcore.DebugLevel:
		logger.Debug("%s", msg)
	case ent.Level == zapcore.InfoLevel:
		logger.Info("%s", msg)
	case ent.Level == zapcore.WarnLevel:
		logger.Warn("%s", msg)
	default:
		logger.Error("%s", msg)
	}
	return nil
}

func (c *runtimeCore) Sync() error { return nil }
