package commands

import (
	"os"

	"github.com/wolfeidau/buildplan/internal/esbuildopts"
	"github.com/wolfeidau/buildplan/internal/logger"
)

type GenerateCmd struct {
	InputFlags `embed:""`
}

func (c *GenerateCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)

	res, err := c.generate(log)
	if err != nil {
		return err
	}

	log.Info().Int("plans", len(res.Plans())).Bool("many", res.IsMany()).Msg("Build plan ready")

	return c.write(os.Stdout, res.Value())
}

type EsbuildCmd struct {
	InputFlags `embed:""`
}

func (c *EsbuildCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)

	res, err := c.generate(log)
	if err != nil {
		return err
	}

	summaries := make([]esbuildopts.Summary, 0, len(res.Plans()))
	for _, p := range res.Plans() {
		summaries = append(summaries, esbuildopts.Describe(esbuildopts.Translate(p)))
	}

	if !res.IsMany() {
		return c.write(os.Stdout, summaries[0])
	}
	return c.write(os.Stdout, summaries)
}
