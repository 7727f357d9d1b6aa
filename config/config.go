// Package config loads the engine's environment-sourced configuration
// via viper, mirroring the teacher's reinforcement.FromYaml use of
// viper but reading environment variables rather than a YAML file, per
// §6's "Configuration (environment, all optional with defaults)".
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds every env var named in §6, plus the demo server's
// listen address (an ambient addition — §6 has no such var, but the
// reference dispatcher needs somewhere to bind).
type Config struct {
	DefaultGraphN int
	ACOAnts       int
	ACOIters      int
	GAPop         int
	GAGens        int
	RLAlpha       float64
	RLGamma       float64
	RLEpsilon     float64
	Addr          string
}

// Load reads the named environment variables, falling back to the
// spec's defaults for anything unset. GAPop/GAGens are deliberately
// never consulted by engine.New/orchestrator.Recompute: the spec's
// open question on config-vs-hard-coded GA params resolves by keeping
// the adaptive path's GA population/generations at 20/20 regardless of
// these values, so that the observable source behaviour — configured
// 30/25 appearing unused — is preserved rather than silently "fixed".
// See DESIGN.md. Every other field is wired into engine.New.
func Load() (*Config, error) {
	vp := viper.New()
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	vp.SetDefault("default_graph_n", 50)
	vp.SetDefault("aco_ants", 20)
	vp.SetDefault("aco_iters", 20)
	vp.SetDefault("ga_pop", 30)
	vp.SetDefault("ga_gens", 25)
	vp.SetDefault("rl_alpha", 0.1)
	vp.SetDefault("rl_gamma", 0.9)
	vp.SetDefault("rl_epsilon", 0.2)
	vp.SetDefault("routex_addr", ":8080")

	return &Config{
		DefaultGraphN: vp.GetInt("default_graph_n"),
		ACOAnts:       vp.GetInt("aco_ants"),
		ACOIters:      vp.GetInt("aco_iters"),
		GAPop:         vp.GetInt("ga_pop"),
		GAGens:        vp.GetInt("ga_gens"),
		RLAlpha:       vp.GetFloat64("rl_alpha"),
		RLGamma:       vp.GetFloat64("rl_gamma"),
		RLEpsilon:     vp.GetFloat64("rl_epsilon"),
		Addr:          vp.GetString("routex_addr"),
	}, nil
}
