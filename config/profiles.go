package config

import "github.com/robmorgan/glow/profile"

const (
	ProfileLitraGlow   = "litra-glow"
	ProfileLitraBeam   = "litra-beam"
	ProfileLitraBeamLX = "litra-beam-lx"
)

func initializeDeviceProfiles() map[string]profile.Profile {
	out := map[string]profile.Profile{
		ProfileLitraGlow: {
			Name:          "Litra Glow",
			ProductID:     0xc900,
			Function:      profile.FunctionStandard,
			MinBrightness: 20,
			MaxBrightness: 250,
		},
		ProfileLitraBeam: {
			Name:          "Litra Beam",
			ProductID:     0xc901,
			Function:      profile.FunctionStandard,
			MinBrightness: 30,
			MaxBrightness: 400,
		},
		ProfileLitraBeamLX: {
			Name:          "Litra Beam LX",
			ProductID:     0xc903,
			Function:      profile.FunctionBeamLX,
			MinBrightness: 30,
			MaxBrightness: 400,
		},
	}

	return out
}
