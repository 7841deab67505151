package corpuscmd

// FeatureGates exposes runtime feature toggles required by corpus command
// handlers. Nil callbacks mean the feature is enabled.
type FeatureGates struct {
	IngestEnabled func() bool
	WatchEnabled  func() bool
}

func (g FeatureGates) ingestEnabled() bool {
	if g.IngestEnabled == nil {
		return true
	}
	return g.IngestEnabled()
}

func (g FeatureGates) watchEnabled() bool {
	if g.WatchEnabled == nil {
		return true
	}
	return g.WatchEnabled()
}
