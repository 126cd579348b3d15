package models

// DeviceID identifies one of the fixed smart-home device workers.
type DeviceID string

const (
	// DeviceClock provides time, alarms, timers, and stopwatch functions.
	DeviceClock DeviceID = "clock"
	// DeviceCalendar provides schedule and reminder information.
	DeviceCalendar DeviceID = "calendar"
	// DeviceSearchEngine provides external information: weather, recipes, general knowledge.
	DeviceSearchEngine DeviceID = "search_engine"
	// DeviceTVDisplay shows visual content on the screen.
	DeviceTVDisplay DeviceID = "tv_display"
	// DeviceFridge reports the food inventory.
	DeviceFridge DeviceID = "fridge"
	// DeviceLighting adjusts lights and lighting scenes.
	DeviceLighting DeviceID = "lighting"
	// DeviceThermostat controls temperature.
	DeviceThermostat DeviceID = "thermostat"
	// DeviceAudioSystem plays music and controls volume.
	DeviceAudioSystem DeviceID = "audio_system"
)

// Catalog returns the fixed, closed set of device identities.
// Planning and dispatch must use the same catalog so every planned
// task resolves to a known worker.
func Catalog() []DeviceID {
	return []DeviceID{
		DeviceClock,
		DeviceCalendar,
		DeviceSearchEngine,
		DeviceTVDisplay,
		DeviceFridge,
		DeviceLighting,
		DeviceThermostat,
		DeviceAudioSystem,
	}
}

// Valid returns true if the device is a member of the fixed catalog.
func (d DeviceID) Valid() bool {
	switch d {
	case DeviceClock, DeviceCalendar, DeviceSearchEngine, DeviceTVDisplay,
		DeviceFridge, DeviceLighting, DeviceThermostat, DeviceAudioSystem:
		return true
	default:
		return false
	}
}

func (d DeviceID) String() string {
	return string(d)
}
