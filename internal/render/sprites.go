package render

import (
	"image"
	"image/color"

	"github.com/tartampluch/go-wv58a/internal/config"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Glyphs are drawn from '#' cells; anything else is left transparent.
var glyphAM = []string{
	" #### ",
	"#    #",
	"#    #",
	"######",
	"#    #",
	"#    #",
	"#    #",
}

var glyphPM = []string{
	"##### ",
	"#    #",
	"#    #",
	"##### ",
	"#     ",
	"#     ",
	"#     ",
}

var glyphDST = []string{
	"### ### ###",
	"# # #    # ",
	"# # ###  # ",
	"# #   #  # ",
	"### ###  # ",
}

var glyphRadio = []string{
	"               #               ",
	"               ##              ",
	"               # #             ",
	"               #  #            ",
	"               #   #           ",
	"               #    #          ",
	"         #     #     #         ",
	"          #    #    #          ",
	"           #   #   #           ",
	"            #  #  #            ",
	"             # # #             ",
	"              ###              ",
	"               #               ",
	"              ###              ",
	"             # # #             ",
	"            #  #  #            ",
	"           #   #   #           ",
	"          #    #    #          ",
	"         #     #     #         ",
	"               #    #          ",
	"               #   #           ",
	"               #  #            ",
	"               # #             ",
	"               ##              ",
	"               #               ",
	"                               ",
	"   ##   ##   ##   ##   ##   ## ",
	"                               ",
	"  #                         #  ",
	" #                           # ",
	"#                             #",
	" #                           # ",
	"  #                         #  ",
}

// dstSpriteOrigin is where the DST mark lives inside the sprite sheet, below
// the eleven battery rows.
var dstSpriteOrigin = image.Pt(0, config.BatteryLevels*config.BatterySpriteHeight)

// sheet holds the battery sprites, one 20x10 row per level (0 full, 10 empty
// or charging), followed by the 12x5 DST mark.
var sheet = buildSheet()

func buildSheet() *image.Alpha {
	w := config.BatterySpriteWidth
	h := config.BatterySpriteHeight
	img := image.NewAlpha(image.Rect(0, 0, w, h*config.BatteryLevels+len(glyphDST)))

	for idx := 0; idx < config.BatteryLevels; idx++ {
		top := idx * h
		// Body outline with a 2px terminal nub on the right.
		for x := 0; x < w-2; x++ {
			img.SetAlpha(x, top+1, color.Alpha{A: 0xff})
			img.SetAlpha(x, top+h-2, color.Alpha{A: 0xff})
		}
		for y := top + 1; y < top+h-1; y++ {
			img.SetAlpha(0, y, color.Alpha{A: 0xff})
			img.SetAlpha(w-3, y, color.Alpha{A: 0xff})
		}
		for y := top + 3; y < top+h-3; y++ {
			img.SetAlpha(w-2, y, color.Alpha{A: 0xff})
			img.SetAlpha(w-1, y, color.Alpha{A: 0xff})
		}

		if idx == config.BatteryChargingIdx {
			drawBolt(img, top)
			continue
		}

		// Level 0 is a full bar, level 9 a single column.
		fill := (config.BatteryLevels - 1 - idx) * (w - 6) / (config.BatteryLevels - 1)
		for x := 2; x < 2+fill; x++ {
			for y := top + 3; y < top+h-3; y++ {
				img.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}

	for dy, row := range glyphDST {
		for dx, c := range row {
			if c == '#' {
				img.SetAlpha(dstSpriteOrigin.X+dx, dstSpriteOrigin.Y+dy, color.Alpha{A: 0xff})
			}
		}
	}
	return img
}

// drawBolt marks the charging row with a small lightning bolt.
func drawBolt(img *image.Alpha, top int) {
	bolt := []image.Point{{9, 3}, {8, 4}, {7, 5}, {8, 5}, {9, 5}, {10, 5}, {9, 6}, {8, 7}}
	for _, p := range bolt {
		img.SetAlpha(p.X, top+p.Y, color.Alpha{A: 0xff})
	}
}

// stamp sets ink for every '#' of glyph with its top-left corner at at.
func stamp(img *image1bit.VerticalLSB, at image.Point, glyph []string) {
	for dy, row := range glyph {
		for dx, c := range row {
			if c == '#' {
				img.SetBit(at.X+dx, at.Y+dy, image1bit.Off)
			}
		}
	}
}
