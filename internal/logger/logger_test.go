package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter_JSON(t *testing.T) {
	buf := new(bytes.Buffer)
	log := SetupWriter(buf, false)

	require.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log.Debug().Msg("hidden")
	log.Info().Str("output", "dist").Msg("export complete")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "export complete", line["message"])
	require.Equal(t, "dist", line["output"])
	require.Contains(t, line, "time")
}

func TestSetupWriter_Dev(t *testing.T) {
	buf := new(bytes.Buffer)
	log := SetupWriter(buf, true)

	require.Equal(t, zerolog.DebugLevel, log.GetLevel())

	log.Debug().Msg("visible")
	require.Contains(t, buf.String(), "visible")
}
