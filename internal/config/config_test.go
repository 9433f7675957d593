package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/victor-varac/AIKZ-sub001/internal/config"
)

func TestCORSOrigenes(t *testing.T) {
	casos := []struct {
		raw  string
		want []string
	}{
		{"", []string{"*"}},
		{"*", []string{"*"}},
		{" , ", []string{"*"}},
		{"https://tablero.aikz.mx/, http://localhost:5173", []string{"https://tablero.aikz.mx", "http://localhost:5173"}},
	}
	for _, tc := range casos {
		cfg := &config.Config{CORSOrigenesRaw: tc.raw}
		assert.Equal(t, tc.want, cfg.CORSOrigenes(), "CORS_ORIGENES=%q", tc.raw)
	}
}

func TestValidate_RechazaTasaIVA(t *testing.T) {
	cfg := &config.Config{TasaIVARaw: "1.5", ZonaHoraria: "America/Mexico_City"}
	assert.ErrorContains(t, cfg.Validate(), "TASA_IVA")
}
