package queue

// QueueType defines the type of queue implementation
type QueueType string

const (
	QueueTypeEmbedded QueueType = "embedded"
	QueueTypeNATS     QueueType = "nats"
	QueueTypeMemory   QueueType = "memory"
)

// Factory answers questions about the configured transport
type Factory struct {
	config *Config
}

// NewFactory creates a factory. Stream settings left unset take their
// defaults.
func NewFactory(cfg *Config) *Factory {
	c := *cfg
	c.NATS = c.NATS.WithDefaults()
	if c.DataDir == "" {
		c.DataDir = "./data/nats"
	}
	return &Factory{config: &c}
}

// Type returns the configured queue type. Empty means embedded.
func (f *Factory) Type() QueueType {
	if f.config.Type == "" {
		return QueueTypeEmbedded
	}
	return QueueType(f.config.Type)
}

func (f *Factory) IsEmbedded() bool { return f.Type() == QueueTypeEmbedded }
func (f *Factory) IsNATS() bool     { return f.Type() == QueueTypeNATS }
func (f *Factory) IsMemory() bool   { return f.Type() == QueueTypeMemory }

// Config returns the resolved configuration
func (f *Factory) Config() *Config {
	return f.config
}
