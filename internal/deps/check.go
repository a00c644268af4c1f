package deps

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"clipforge/config"
	"clipforge/internal/storage"
	"clipforge/log"
)

// CheckDependency resolves the external tools the pipeline shells out to and
// records the resolved ffmpeg/ffprobe paths for later use. It fails when a
// must-tier tool cannot be found.
func CheckDependency() error {
	states := ResolveDependencyInventory(config.Conf.Transcribe.Provider, config.Conf.Transcribe.LocalWhisper.BinaryPath)
	log.GetLogger().Info(FormatDependencyReport(states))

	var missingMust []string
	for _, state := range states {
		if state.Status == DependencyStatusOK {
			switch state.ID {
			case "ffmpeg":
				storage.FfmpegPath = state.ResolvedPath
			case "ffprobe":
				storage.FfprobePath = state.ResolvedPath
			}
			continue
		}

		switch state.Tier {
		case DependencyTierMust:
			missingMust = append(missingMust, state.Name)
		case DependencyTierShould:
			log.GetLogger().Warn("recommended dependency unavailable",
				zap.String("name", state.Name),
				zap.String("status", string(state.Status)),
				zap.String("hint", state.Hint))
		}
	}

	if len(missingMust) > 0 {
		return fmt.Errorf("missing required dependencies: %s", strings.Join(missingMust, ", "))
	}
	return nil
}
