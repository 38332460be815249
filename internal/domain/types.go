package domain

import "time"

// Category describes one waste class and how to dispose of it
type Category struct {
	ID                   string   `json:"id" yaml:"id"`
	Name                 string   `json:"name" yaml:"name"`
	Color                string   `json:"color" yaml:"color"`
	LightBg              string   `json:"light_bg" yaml:"light_bg"`
	Icon                 string   `json:"icon" yaml:"icon"`
	IsRecyclable         bool     `json:"is_recyclable" yaml:"is_recyclable"`
	DisposalBin          string   `json:"disposal_bin" yaml:"disposal_bin"`
	DisposalInstructions []string `json:"disposal_instructions" yaml:"disposal_instructions"`
	EnvironmentalTip     string   `json:"environmental_tip" yaml:"environmental_tip"`
	Warnings             []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	CO2Impact            float64  `json:"co2_impact" yaml:"co2_impact"`
	EnergyImpact         float64  `json:"energy_impact" yaml:"energy_impact"`
	WaterImpact          float64  `json:"water_impact" yaml:"water_impact"`
	PreparationTime      string   `json:"preparation_time" yaml:"preparation_time"`
	CollectionSchedule   string   `json:"collection_schedule" yaml:"collection_schedule"`
}

// Candidate is raw classifier output before it is enriched with category data
type Candidate struct {
	WasteType  string `json:"waste_type"`
	Confidence int    `json:"confidence"`
	ItemName   string `json:"item_name"`
}

// Result is a fully resolved, display-ready detection
type Result struct {
	ItemName             string   `json:"item_name"`
	Confidence           int      `json:"confidence"`
	WasteType            string   `json:"waste_type"`
	Category             string   `json:"category"`
	Image                string   `json:"image"`
	Color                string   `json:"color"`
	Icon                 string   `json:"icon"`
	IsRecyclable         bool     `json:"is_recyclable"`
	DisposalBin          string   `json:"disposal_bin"`
	DisposalInstructions []string `json:"disposal_instructions"`
	EnvironmentalTip     string   `json:"environmental_tip"`
	Warnings             []string `json:"warnings,omitempty"`
	CO2Impact            float64  `json:"co2_impact"`
	EnergyImpact         float64  `json:"energy_impact"`
	WaterImpact          float64  `json:"water_impact"`
	PreparationTime      string   `json:"preparation_time"`
	CollectionSchedule   string   `json:"collection_schedule"`
}

// Detection is a result recorded in the session ledger
type Detection struct {
	ID         string    `json:"id"`
	Result     Result    `json:"result"`
	DetectedAt time.Time `json:"detected_at"`
}

// Stats summarizes the detections of a session
type Stats struct {
	ItemsDetected int     `json:"items_detected"`
	Recyclable    int     `json:"recyclable"`
	RecyclingRate int     `json:"recycling_rate"`
	CO2Saved      float64 `json:"co2_saved"`
	EnergySaved   float64 `json:"energy_saved"`
	WaterSaved    float64 `json:"water_saved"`
}

// CategoryCount is the number of detections for one category
type CategoryCount struct {
	WasteType string `json:"waste_type"`
	Count     int    `json:"count"`
}

// ConfidenceBucket counts detections whose confidence falls in a range
type ConfidenceBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Center is a drop-off location for waste that is not collected curbside
type Center struct {
	Name          string   `json:"name"`
	DistanceKm    float64  `json:"distance_km"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	Hours         string   `json:"hours"`
	AcceptedTypes []string `json:"accepted_types"`
	IsOpen        bool     `json:"is_open"`
}
