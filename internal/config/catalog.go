package config

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/hearthkit/hearth/pkg/models"
)

// DeviceProfile is the per-device configuration data that
// parameterizes the one generic worker: its capability description,
// the one-line summary other workers see when deciding whether to
// delegate to it, and the few-shot guidance for its own decisions.
type DeviceProfile struct {
	// Device is the catalog identity this profile belongs to.
	Device models.DeviceID `yaml:"device"`
	// Capabilities is the multi-line capability description used in
	// this worker's own prompts.
	Capabilities string `yaml:"capabilities"`
	// Summary is the short capability line shown to other workers
	// and to the planner.
	Summary string `yaml:"summary"`
	// Examples is optional few-shot guidance appended to the
	// worker's new-task prompt.
	Examples string `yaml:"examples"`
}

// Catalog maps every device identity to its profile. Planning and
// dispatch share one catalog so every planned task resolves to a
// known worker.
type Catalog struct {
	profiles map[models.DeviceID]DeviceProfile
}

// Profile returns the profile for a device.
func (c *Catalog) Profile(d models.DeviceID) (DeviceProfile, bool) {
	p, ok := c.profiles[d]
	return p, ok
}

// Devices returns the catalog identities in fixed order.
func (c *Catalog) Devices() []models.DeviceID {
	return models.Catalog()
}

// PlannerSummary renders the "available devices" block for the
// planner prompt.
func (c *Catalog) PlannerSummary() string {
	var b strings.Builder
	for _, d := range models.Catalog() {
		p := c.profiles[d]
		fmt.Fprintf(&b, "- %s: %s\n", d, p.Summary)
	}
	return strings.TrimRight(b.String(), "\n")
}

// CollaboratorSummary renders the "other agents available" line for
// one worker's prompt, excluding the worker itself.
func (c *Catalog) CollaboratorSummary(self models.DeviceID) string {
	parts := make([]string, 0, len(c.profiles)-1)
	for _, d := range models.Catalog() {
		if d == self {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", d, c.profiles[d].Summary))
	}
	return strings.Join(parts, ", ")
}

// catalogFile is the YAML shape of a device catalog override file.
type catalogFile struct {
	Devices []DeviceProfile `yaml:"devices"`
}

// LoadCatalog reads device profiles from a YAML file. Devices not
// present in the file keep their built-in profile; unknown devices
// are rejected so planning and dispatch never disagree.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	catalog := DefaultCatalog()
	for _, p := range file.Devices {
		if !p.Device.Valid() {
			return nil, fmt.Errorf("catalog file names unknown device %q", p.Device)
		}
		base := catalog.profiles[p.Device]
		if p.Capabilities != "" {
			base.Capabilities = p.Capabilities
		}
		if p.Summary != "" {
			base.Summary = p.Summary
		}
		if p.Examples != "" {
			base.Examples = p.Examples
		}
		catalog.profiles[p.Device] = base
	}
	return catalog, nil
}

// DefaultCatalog returns the built-in profiles for the eight devices.
func DefaultCatalog() *Catalog {
	profiles := map[models.DeviceID]DeviceProfile{
		models.DeviceClock: {
			Device: models.DeviceClock,
			Capabilities: `1. Provide current time
2. Set or cancel alarms with default alarm sound
3. Set or cancel timers
4. Start or stop a stopwatch`,
			Summary: "provide current time, set alarms and timers, start or stop stopwatch",
			Examples: `action: "set alarm for tomorrow 7am"
{"response": "Alarm set for 7:00 AM tomorrow", "collaboration_request": {}}

action: "remind me 10 minutes before my next meeting"
{"response": "", "collaboration_request": {"target": "calendar", "request": "What time is my next scheduled meeting today?"}}`,
		},
		models.DeviceCalendar: {
			Device: models.DeviceCalendar,
			Capabilities: `1. Add schedule entries and reminders
2. Provide information about scheduled events: time, location, attendees`,
			Summary: "add schedule/reminders, provide information about schedule",
			Examples: `action: "What's on my calendar today?"
{"response": "Today: team standup at 10 AM, dentist at 3 PM", "collaboration_request": {}}

action: "add a reminder one hour from now"
{"response": "", "collaboration_request": {"target": "clock", "request": "What is the current time?"}}`,
		},
		models.DeviceSearchEngine: {
			Device: models.DeviceSearchEngine,
			Capabilities: `1. Provide weather information (any time: past, present, future)
2. Provide recipes and cooking information
3. Provide general information and knowledge
4. Provide home management tips and advice`,
			Summary: "general information, recipes information, weather",
			Examples: `action: "find a pasta recipe"
{"response": "Found: classic spaghetti aglio e olio, 20 minutes, 5 ingredients", "collaboration_request": {}}

action: "suggest recipes using available ingredients"
{"response": "", "collaboration_request": {"target": "fridge", "request": "What ingredients are currently available?"}}`,
		},
		models.DeviceTVDisplay: {
			Device:       models.DeviceTVDisplay,
			Capabilities: `1. Show or display visual content on the screen`,
			Summary:      "show/display visual content",
			Examples: `action: "display TV shows content"
{"response": "Now showing popular TV shows on the main screen", "collaboration_request": {}}

action: "show today's schedule on the screen"
{"response": "", "collaboration_request": {"target": "calendar", "request": "What is on today's schedule?"}}`,
		},
		models.DeviceFridge: {
			Device: models.DeviceFridge,
			Capabilities: `1. Provide the current food inventory and expiration dates
(The fridge does not know any recipes.)`,
			Summary: "provide food inventory (doesn't know any recipes)",
			Examples: `action: "what's in the fridge"
{"response": "Available: eggs, milk, spinach, tomatoes, cheddar; milk expires in 2 days", "collaboration_request": {}}`,
		},
		models.DeviceLighting: {
			Device: models.DeviceLighting,
			Capabilities: `1. Adjust lights: on/off, brightness, color
2. Create atmosphere through lighting scenes`,
			Summary: "adjust lights, create atmosphere through lighting",
			Examples: `action: "dim the lighting to help users relax"
{"response": "Lights dimmed to 30% with warm tones for relaxation", "collaboration_request": {}}`,
		},
		models.DeviceThermostat: {
			Device: models.DeviceThermostat,
			Capabilities: `1. Control temperature
2. Create atmosphere through temperature`,
			Summary: "temperature control, create atmosphere through temperature",
			Examples: `action: "set a comfortable temperature for users to relax better"
{"response": "Temperature set to 22°C for comfortable relaxation", "collaboration_request": {}}`,
		},
		models.DeviceAudioSystem: {
			Device: models.DeviceAudioSystem,
			Capabilities: `1. Play music and audio content
2. Control volume`,
			Summary: "play music, adjust volume, create atmosphere through audio",
			Examples: `action: "play Bohemian Rhapsody"
{"response": "Now playing: Bohemian Rhapsody by Queen", "collaboration_request": {}}

action: "play something relaxing at low volume"
{"response": "", "collaboration_request": {"target": "search_engine", "request": "recommend relaxing music"}}

action: "play Taylor Swift for 2 hours"
{"response": "", "collaboration_request": {"target": "clock", "request": "set 2 hours timer for playing Taylor Swift's songs"}}`,
		},
	}
	return &Catalog{profiles: profiles}
}
