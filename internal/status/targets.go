package status

// DefaultTargets returns the monitored endpoints for the OpenClaw
// ecosystem: the core release feed, the skill registry, and the
// documentation site standing in for the community presence.
func DefaultTargets() []ProbeTarget {
	return []ProbeTarget{
		{
			ID:   "core",
			Name: "OpenClaw Core",
			URL:  "https://api.github.com/repos/openclaw/openclaw/releases/latest",
			Kind: CheckKindGitHub,
		},
		{
			ID:   "registry",
			Name: "ClawHub Registry",
			URL:  "https://moltbook.ai",
			Kind: CheckKindHTTP,
		},
		{
			ID:   "community",
			Name: "Discord / Community",
			URL:  "https://docs.openclaw.ai",
			Kind: CheckKindHTTP,
		},
	}
}
