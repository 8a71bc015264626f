package config

// ConfigDiff describes what changed between two configs. Only fields that
// can be applied without a restart are tracked individually; everything else
// sets RestartRequired.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// PhraseTableChanged is set when the phrase-table override path changed;
	// the classifier is rebuilt from the new table on the fly.
	PhraseTableChanged bool
	NewPhraseTablePath string

	// ThresholdChanged is set when the typed-reply match threshold changed.
	ThresholdChanged bool
	NewThreshold     float64

	// RestartRequired is set when server, backend, or history settings
	// changed; those are fixed at process start.
	RestartRequired bool
}

// Empty reports whether the diff carries no changes at all.
func (d ConfigDiff) Empty() bool {
	return !d.LogLevelChanged && !d.PhraseTableChanged && !d.ThresholdChanged && !d.RestartRequired
}

// Diff compares old and new configs and returns what changed.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	if old.Classifier.PhraseTablePath != new.Classifier.PhraseTablePath {
		d.PhraseTableChanged = true
		d.NewPhraseTablePath = new.Classifier.PhraseTablePath
	}

	if old.Match.Threshold != new.Match.Threshold {
		d.ThresholdChanged = true
		d.NewThreshold = new.Match.Threshold
	}

	if old.Server.ListenAddr != new.Server.ListenAddr ||
		!tlsEqual(old.Server.TLS, new.Server.TLS) ||
		old.Server.ShutdownTimeout != new.Server.ShutdownTimeout ||
		old.Backend != new.Backend ||
		old.History != new.History {
		d.RestartRequired = true
	}

	return d
}

func tlsEqual(a, b *TLSConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
