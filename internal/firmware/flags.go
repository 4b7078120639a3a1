// Package firmware maps hardware configuration choices to compiler build flags.
package firmware

import "strings"

// Variant identifies the board variant a sketch is compiled for.
type Variant string

const (
	VariantLeonardo    Variant = "Arduino Leonardo"
	VariantMicro       Variant = "Arduino/Genuino Micro"
	VariantProMicro    Variant = "Pro Micro 5V Standard Wiring"
	VariantProMicroAlt Variant = "Arduino Pro Micro Alternate Wiring"
)

// Display identifies the OLED display controller.
type Display string

const (
	DisplaySH1106  Display = "SH1106"
	DisplaySSD1306 Display = "SSD1306"
	DisplaySSD1309 Display = "SSD1309"
)

// FlashChip identifies the external flash chip select wiring.
type FlashChip string

const (
	FlashSDA FlashChip = "Pin2/D1/SDA"
	FlashRx  FlashChip = "Pin0/D0/Rx"
)

// BuildConfiguration is the complete set of hardware choices for one build.
// Fields are never absent; unknown values resolve to the documented defaults
// during flag derivation.
type BuildConfiguration struct {
	Variant   Variant
	Display   Display
	FlashChip FlashChip
}

// DefaultConfiguration returns the fallback hardware configuration used when
// nothing is selected.
func DefaultConfiguration() BuildConfiguration {
	return BuildConfiguration{
		Variant:   VariantProMicro,
		Display:   DisplaySSD1306,
		FlashChip: FlashSDA,
	}
}

// FlagSet is the ordered list of preprocessor definitions passed to the
// compiler as a single build property.
type FlagSet []string

// String joins the flags space-separated, the form the compiler expects.
func (fs FlagSet) String() string { return strings.Join(fs, " ") }

// BuildProperty renders the flag set as the compiler's extra-flags property.
func (fs FlagSet) BuildProperty() string { return "build.extra_flags=" + fs.String() }

// Fixed USB identifiers appended to every derived flag set.
const (
	usbVIDFlag = "-DUSB_VID=0x2341"
	usbPIDFlag = "-DUSB_PID=0x8036"
)

var variantFlags = map[Variant][]string{
	VariantLeonardo:    {"-DARDUBOY_LEONARDO"},
	VariantMicro:       {"-DARDUBOY_MICRO"},
	VariantProMicro:    {"-DARDUBOY_PRO_MICRO"},
	VariantProMicroAlt: {"-DARDUBOY_PRO_MICRO", "-DAB_ALTERNATE_WIRING"},
}

var displayFlags = map[Display]string{
	DisplaySH1106:  "-DOLED_SH1106",
	DisplaySSD1306: "-DOLED_SSD1306",
	DisplaySSD1309: "-DOLED_SSD1309",
}

var flashChipFlags = map[FlashChip]string{
	FlashSDA: "-DCART_CS_SDA",
	FlashRx:  "-DCART_CS_RX",
}

// Derive maps a build configuration to its compiler flag set. Pure function:
// each field resolves through its own table, unknown values fall back to the
// Pro Micro / SSD1306 / SDA defaults.
func Derive(cfg BuildConfiguration) FlagSet {
	variant, ok := variantFlags[cfg.Variant]
	if !ok {
		variant = variantFlags[VariantProMicro]
	}
	display, ok := displayFlags[cfg.Display]
	if !ok {
		display = displayFlags[DisplaySSD1306]
	}
	flash, ok := flashChipFlags[cfg.FlashChip]
	if !ok {
		flash = flashChipFlags[FlashSDA]
	}

	fs := make(FlagSet, 0, len(variant)+4)
	fs = append(fs, variant...)
	fs = append(fs, display, flash, usbVIDFlag, usbPIDFlag)
	return fs
}

// Variants lists the selectable board variants in presentation order.
func Variants() []Variant {
	return []Variant{VariantLeonardo, VariantMicro, VariantProMicro, VariantProMicroAlt}
}

// Displays lists the selectable display controllers in presentation order.
func Displays() []Display {
	return []Display{DisplaySH1106, DisplaySSD1306, DisplaySSD1309}
}

// FlashChips lists the selectable flash chip wirings in presentation order.
func FlashChips() []FlashChip {
	return []FlashChip{FlashSDA, FlashRx}
}
