package flux

import (
	"github.com/adrianliechti/imagine/pkg/provider"
)

var Models = map[string]provider.Model{
	FluxPro11: {
		ID: FluxPro11,

		Name:        "Flux 1.1 Pro",
		Description: "High-quality image generation model",

		MaxWidth:  2048,
		MaxHeight: 2048,

		DefaultWidth:  1024,
		DefaultHeight: 1024,
	},

	FluxProUltra11: {
		ID: FluxProUltra11,

		Name:        "Flux 1.1 Pro Ultra",
		Description: "Flux 1.1 Pro with up to 4 megapixel output",

		MaxWidth:  2752,
		MaxHeight: 2752,

		DefaultWidth:  2048,
		DefaultHeight: 2048,
	},

	FluxPro: {
		ID: FluxPro,

		Name:        "Flux Pro",
		Description: "State-of-the-art image generation with top of the line prompt following",

		MaxWidth:  1440,
		MaxHeight: 1440,

		DefaultWidth:  1024,
		DefaultHeight: 1024,
	},

	FluxDev: {
		ID: FluxDev,

		Name:        "Flux Dev",
		Description: "Open-weight guidance-distilled flux model",

		MaxWidth:  1440,
		MaxHeight: 1440,

		DefaultWidth:  1024,
		DefaultHeight: 1024,
	},

	FluxSchnell: {
		ID: FluxSchnell,

		Name:        "Flux Schnell",
		Description: "Fastest flux model for local development",

		MaxWidth:  1440,
		MaxHeight: 1440,

		DefaultWidth:  1024,
		DefaultHeight: 1024,
	},
}
