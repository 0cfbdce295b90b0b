package profile

const (
	// VendorLogitech is the USB vendor ID shared by every Litra light.
	VendorLogitech uint16 = 0x046d

	// FunctionStandard addresses the Glow and Beam command set.
	FunctionStandard byte = 0x04
	// FunctionBeamLX addresses the Beam LX command set.
	FunctionBeamLX byte = 0x06
)

// Profile holds info for a Litra model including its USB product ID and brightness range.
type Profile struct {
	Name string

	// ProductID is the USB product ID reported by the light.
	ProductID uint16

	// Function is the HID feature index used in every report sent to the light.
	Function byte

	// Brightness range in lumen.
	MinBrightness int
	MaxBrightness int
}
