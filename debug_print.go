package voiceorb

import (
	"fmt"
	"image/color"
	"strings"

	eb "github.com/hajimehoshi/ebiten/v2"
	ebt "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

type DebugMsg struct {
	Key   string
	Value string
}

var TheDebugPrintManager struct {
	DebugMsgs           []DebugMsg
	PersistentDebugMsgs []DebugMsg

	DebugMsgRenderTarget *eb.Image

	builder strings.Builder
}

// DebugFace needs no font files, it's the 7x13 bitmap font.
var DebugFace = ebt.NewGoXFace(basicfont.Face7x13)

func DebugPrintf(key, fmtStr string, values ...any) {
	DebugPuts(key, fmt.Sprintf(fmtStr, values...))
}

func DebugPrint(key string, values ...any) {
	DebugPuts(key, fmt.Sprint(values...))
}

func DebugPuts(key, value string) {
	dm := &TheDebugPrintManager
	dm.DebugMsgs = putDebugMsg(dm.DebugMsgs, key, value)
}

func DebugPrintfPersist(key, fmtStr string, values ...any) {
	DebugPutsPersist(key, fmt.Sprintf(fmtStr, values...))
}

func DebugPutsPersist(key, value string) {
	dm := &TheDebugPrintManager
	dm.PersistentDebugMsgs = putDebugMsg(dm.PersistentDebugMsgs, key, value)
}

func putDebugMsg(msgs []DebugMsg, key, value string) []DebugMsg {
	for i, msg := range msgs {
		if msg.Key == key {
			msgs[i].Value = value
			return msgs
		}
	}

	return append(msgs, DebugMsg{
		Key:   key,
		Value: value,
	})
}

// DebugText returns every message, persistent ones first.
func DebugText() string {
	dm := &TheDebugPrintManager

	dm.builder.Reset()

	total := len(dm.PersistentDebugMsgs) + len(dm.DebugMsgs)
	msgCounter := 0

	write := func(msg DebugMsg) {
		// builder doesn't actually errors out
		dm.builder.WriteString(msg.Key)
		dm.builder.WriteString(": ")
		dm.builder.WriteString(msg.Value)

		msgCounter++
		if msgCounter != total {
			dm.builder.WriteString("\n")
		}
	}

	for _, msg := range dm.PersistentDebugMsgs {
		write(msg)
	}
	for _, msg := range dm.DebugMsgs {
		write(msg)
	}

	return dm.builder.String()
}

func DrawDebugMsgs(dst *eb.Image) {
	dm := &TheDebugPrintManager

	const hozMargin = 5
	const vertMargin = 5
	const lineSpacing = 15

	text := DebugText()
	if text == "" {
		return
	}

	w, h := ebt.Measure(text, DebugFace, lineSpacing)

	boxW, boxH := w+hozMargin*2, h+vertMargin*2

	rect := FRect(0, 0, boxW, boxH)

	createBuf := dm.DebugMsgRenderTarget == nil
	createBuf = createBuf || dm.DebugMsgRenderTarget.Bounds().Dx() < int(boxW+1)
	createBuf = createBuf || dm.DebugMsgRenderTarget.Bounds().Dy() < int(boxH+1)

	if createBuf {
		if dm.DebugMsgRenderTarget != nil {
			dm.DebugMsgRenderTarget.Deallocate()
		}
		dm.DebugMsgRenderTarget = eb.NewImageWithOptions(
			RectWH(int(boxW+1), int(boxH+1)),
			&eb.NewImageOptions{Unmanaged: true},
		)
	}

	dm.DebugMsgRenderTarget.Clear()

	DrawFilledRect(
		dm.DebugMsgRenderTarget,
		rect,
		color.NRGBA{255, 255, 255, 255},
		false,
	)
	DrawFilledRect(
		dm.DebugMsgRenderTarget,
		rect.Inset(2),
		color.NRGBA{0, 0, 0, 230},
		false,
	)

	{
		op := &DrawTextOptions{}
		op.GeoM.Translate(hozMargin, vertMargin)
		op.ColorScale.ScaleWithColor(color.NRGBA{255, 255, 255, 255})
		op.LayoutOptions.LineSpacing = lineSpacing

		DrawText(dm.DebugMsgRenderTarget, text, DebugFace, op)
	}

	{
		bounds := dst.Bounds()
		op := &DrawImageOptions{}
		op.GeoM.Translate(f64(bounds.Max.X)-boxW, f64(bounds.Max.Y)-boxH)
		DrawImage(dst, dm.DebugMsgRenderTarget, op)
	}
}

func ClearDebugMsgs() {
	dm := &TheDebugPrintManager

	dm.DebugMsgs = dm.DebugMsgs[:0]
}
