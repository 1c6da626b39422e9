// Package icon 生成托盘图标：带边框的方块，中间是桌面编号
package icon

import (
	"encoding/binary"
	"image/color"
	"strconv"
)

const (
	Size = 16

	glyphWidth  = 3
	glyphHeight = 5
	scale       = 2
	glyphGap    = 1
)

// glyphs 3x5 点阵字体，每行低 3 位从左到右
var glyphs = map[rune][glyphHeight]uint8{
	'0': {0b111, 0b101, 0b101, 0b101, 0b111},
	'1': {0b010, 0b110, 0b010, 0b010, 0b111},
	'2': {0b111, 0b001, 0b111, 0b100, 0b111},
	'3': {0b111, 0b001, 0b111, 0b001, 0b111},
	'4': {0b101, 0b101, 0b111, 0b001, 0b001},
	'5': {0b111, 0b100, 0b111, 0b001, 0b111},
	'6': {0b111, 0b100, 0b111, 0b101, 0b111},
	'7': {0b111, 0b001, 0b010, 0b010, 0b010},
	'8': {0b111, 0b101, 0b111, 0b101, 0b111},
	'9': {0b111, 0b101, 0b111, 0b001, 0b111},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
}

// Label 托盘上显示的文字：1-99 显示数字，更大时显示 "++"
func Label(number int) string {
	if number < 100 {
		return strconv.Itoa(number)
	}
	return "++"
}

// Render 生成 16x16 32 位 ICO 图标
func Render(label string, fg color.RGBA) []byte {
	pixels := make([]byte, Size*Size*4)

	set := func(x, y int) {
		if x < 0 || y < 0 || x >= Size || y >= Size {
			return
		}
		idx := ((Size-1-y)*Size + x) * 4 // ICO 是从下往上的
		pixels[idx+0] = fg.B
		pixels[idx+1] = fg.G
		pixels[idx+2] = fg.R
		pixels[idx+3] = fg.A
	}

	// 边框
	for i := 0; i < Size; i++ {
		set(i, 0)
		set(i, Size-1)
		set(0, i)
		set(Size-1, i)
	}

	// 文字居中
	runes := []rune(label)
	textWidth := len(runes)*glyphWidth*scale + (len(runes)-1)*glyphGap
	originX := (Size - textWidth + 1) / 2
	originY := (Size - glyphHeight*scale) / 2
	for i, r := range runes {
		glyph, ok := glyphs[r]
		if !ok {
			continue
		}
		gx := originX + i*(glyphWidth*scale+glyphGap)
		for row := 0; row < glyphHeight; row++ {
			for col := 0; col < glyphWidth; col++ {
				if glyph[row]&(1<<(glyphWidth-1-col)) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						set(gx+col*scale+dx, originY+row*scale+dy)
					}
				}
			}
		}
	}

	return encodeICO(pixels)
}

const (
	icoHeaderSize = 6
	icoEntrySize  = 16
	bmpHeaderSize = 40
)

// encodeICO 按 ICO 格式打包 BGRA 像素
func encodeICO(pixels []byte) []byte {
	// AND 掩码每行按 4 字节对齐，全 0 表示使用 alpha 通道
	mask := make([]byte, Size*4)
	imageSize := bmpHeaderSize + len(pixels) + len(mask)

	out := make([]byte, icoHeaderSize+icoEntrySize, icoHeaderSize+icoEntrySize+imageSize)
	le := binary.LittleEndian

	// ICONDIR: 类型 1 = ICO，共 1 张图
	le.PutUint16(out[2:], 1)
	le.PutUint16(out[4:], 1)

	// ICONDIRENTRY
	entry := out[icoHeaderSize:]
	entry[0] = Size
	entry[1] = Size
	le.PutUint16(entry[4:], 1)
	le.PutUint16(entry[6:], 32)
	le.PutUint32(entry[8:], uint32(imageSize))
	le.PutUint32(entry[12:], icoHeaderSize+icoEntrySize)

	// BITMAPINFOHEADER，高度包含 XOR 和 AND 两部分
	bmp := make([]byte, bmpHeaderSize)
	le.PutUint32(bmp[0:], bmpHeaderSize)
	le.PutUint32(bmp[4:], Size)
	le.PutUint32(bmp[8:], Size*2)
	le.PutUint16(bmp[12:], 1)
	le.PutUint16(bmp[14:], 32)

	out = append(out, bmp...)
	out = append(out, pixels...)
	out = append(out, mask...)
	return out
}
