package ui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/nevisdale/gbcore/internal/gb"
	"github.com/nevisdale/gbcore/internal/logger"
)

// P - pause
// R - one step and stop
// F - one frame and stop
// arrows, Z (B), X (A), Enter (Start), right Shift (Select) - joypad

var keymap = map[ebiten.Key]gb.Button{
	ebiten.KeyArrowRight: gb.ButtonRight,
	ebiten.KeyArrowLeft:  gb.ButtonLeft,
	ebiten.KeyArrowUp:    gb.ButtonUp,
	ebiten.KeyArrowDown:  gb.ButtonDown,
	ebiten.KeyX:          gb.ButtonA,
	ebiten.KeyZ:          gb.ButtonB,
	ebiten.KeyShiftRight: gb.ButtonSelect,
	ebiten.KeyEnter:      gb.ButtonStart,
}

// shades of the four DMG colours, lightest first
var shades = [4]color.RGBA{
	{0xe0, 0xf8, 0xd0, 0xff},
	{0x88, 0xc0, 0x70, 0xff},
	{0x34, 0x68, 0x56, 0xff},
	{0x08, 0x18, 0x20, 0xff},
}

const (
	tilesPerRow = 16
	tileRows    = 24 // 384 tiles in 0x8000-0x97FF
	tileSize    = 8

	tilesScale  = 2
	tilesWidth  = tilesPerRow * tileSize
	tilesHeight = tileRows * tileSize

	debugScreenWidth  = 320
	debugScreenHeight = tilesHeight * tilesScale
)

type UI struct {
	bus    *gb.Bus
	paused bool
	tiles  *image.RGBA
}

func New(bus *gb.Bus) *UI {
	return &UI{
		bus:   bus,
		tiles: image.NewRGBA(image.Rect(0, 0, tilesWidth, tilesHeight)),
	}
}

func (ui *UI) Update() error {
	for key, btn := range keymap {
		if inpututil.IsKeyJustPressed(key) {
			ui.bus.Press(btn)
		}
		if inpututil.IsKeyJustReleased(key) {
			ui.bus.Release(btn)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		ui.paused = !ui.paused
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		ui.paused = true
		if _, err := ui.bus.Step(); err != nil {
			logger.Logf("ui", "%v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		ui.paused = true
		ui.runFrame()
	case !ui.paused:
		ui.runFrame()
	}
	return nil
}

func (ui *UI) runFrame() {
	if err := ui.bus.RunFrame(); err != nil {
		ui.paused = true
		logger.Logf("ui", "%v", err)
		return
	}
	// there is no video unit drawing lines, so VBlank is raised once per
	// frame here
	ui.bus.RequestInterrupt(gb.IntVBlank)
}

func (ui *UI) Draw(screen *ebiten.Image) {
	info := ui.bus.DebugInfo()

	var infoStr strings.Builder
	fmt.Fprintf(&infoStr, " FPS: %0.0f", ebiten.ActualFPS())
	if ui.paused {
		infoStr.WriteString("  PAUSED")
	}
	infoStr.WriteString("\n")
	for _, line := range strings.Split(strings.TrimSuffix(info.StatusString(), "\n"), "\n") {
		infoStr.WriteString(" " + line + "\n")
	}

	infoStr.WriteString("\n")
	for i, ins := range ui.bus.Disassemble(info.Registers.PC, 8) {
		if i == 0 {
			infoStr.WriteString("*")
		} else {
			infoStr.WriteString(" ")
		}
		infoStr.WriteString(ins.String() + "\n")
	}

	infoStr.WriteString("\n serial:\n ")
	infoStr.WriteString(tail(string(ui.bus.SerialOutput()), 3, 48))

	infoStr.WriteString("\n\n log:\n")
	var log strings.Builder
	logger.Tail(&log, 4)
	infoStr.WriteString(log.String())

	debugScreenOffsetX := float32(tilesWidth * tilesScale)
	vector.DrawFilledRect(screen, debugScreenOffsetX, 0, debugScreenWidth, debugScreenHeight, color.RGBA{50, 50, 50, 255}, false)
	ebitenutil.DebugPrintAt(screen, infoStr.String(), int(debugScreenOffsetX), 0)

	ui.drawTiles()
	img := ebiten.NewImageFromImage(ui.tiles)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(tilesScale, tilesScale)
	screen.DrawImage(img, op)
}

// drawTiles decodes the tile data in video RAM using the BGP palette.
func (ui *UI) drawTiles() {
	bgp := ui.bus.Read8(0xff47)
	for tile := 0; tile < tilesPerRow*tileRows; tile++ {
		base := uint16(0x8000 + tile*16)
		tx := (tile % tilesPerRow) * tileSize
		ty := (tile / tilesPerRow) * tileSize
		for row := 0; row < tileSize; row++ {
			lo := ui.bus.Read8(base + uint16(row*2))
			hi := ui.bus.Read8(base + uint16(row*2) + 1)
			for col := 0; col < tileSize; col++ {
				bit := 7 - col
				idx := (hi>>bit&1)<<1 | lo>>bit&1
				shade := bgp >> (idx * 2) & 0x03
				ui.tiles.SetRGBA(tx+col, ty+row, shades[shade])
			}
		}
	}
}

// tail returns the last lines of s, each cut to width.
func tail(s string, lines, width int) string {
	all := strings.Split(s, "\n")
	if len(all) > lines {
		all = all[len(all)-lines:]
	}
	for i, l := range all {
		if len(l) > width {
			all[i] = l[len(l)-width:]
		}
	}
	return strings.Join(all, "\n ")
}

func (ui *UI) Layout(_, _ int) (int, int) {
	return tilesWidth*tilesScale + debugScreenWidth, debugScreenHeight
}

func RunUI(ui *UI) error {
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	screenSizeX, screenSizeY := tilesWidth*tilesScale+debugScreenWidth, debugScreenHeight
	screenSizeX *= 2
	screenSizeY *= 2
	ebiten.SetWindowSize(screenSizeX, screenSizeY)
	ebiten.SetWindowTitle("gbcore")
	ebiten.SetTPS(60)
	return ebiten.RunGame(ui)
}
