package litra

// Every report exchanged with a Litra light is 20 bytes long.
const reportLength = 20

const (
	commandPower         byte = 0x1c
	commandSetBrightness byte = 0x4c
	commandGetPower      byte = 0x01
	commandGetBrightness byte = 0x31
)

func report(function, command byte, payload ...byte) []byte {
	out := make([]byte, reportLength)
	out[0] = 0x11
	out[1] = 0xff
	out[2] = function
	out[3] = command
	copy(out[4:], payload)
	return out
}

func powerReport(function byte, on bool) []byte {
	var state byte
	if on {
		state = 0x01
	}
	return report(function, commandPower, state)
}

func setBrightnessReport(function byte, lumen int) []byte {
	return report(function, commandSetBrightness, byte(lumen>>8), byte(lumen))
}

func getPowerReport(function byte) []byte {
	return report(function, commandGetPower)
}

func getBrightnessReport(function byte) []byte {
	return report(function, commandGetBrightness)
}

func parsePower(resp []byte) bool {
	return len(resp) > 4 && resp[4] == 0x01
}

func parseBrightness(resp []byte) int {
	if len(resp) < 6 {
		return 0
	}
	return int(resp[4])<<8 | int(resp[5])
}
