package catalog

import "github.com/pbaille/wastesort/internal/domain"

// Category ids. The set is closed: classifiers must emit one of these.
const (
	Cardboard = "CARDBOARD"
	Glass     = "GLASS"
	Metal     = "METAL"
	Paper     = "PAPER"
	Plastic   = "PLASTIC"
	Battery   = "BATTERY"
	Clothes   = "CLOTHES"
	Organic   = "ORGANIC"
	Shoes     = "SHOES"
)

const (
	blueBin    = "Recycling Bin (Blue)"
	textileBin = "Textile Recycling / Donation"
)

var builtin = []domain.Category{
	{
		ID:           Cardboard,
		Name:         "Cardboard",
		Color:        "#D97706",
		LightBg:      "#FEF3C7",
		Icon:         "📦",
		IsRecyclable: true,
		DisposalBin:  blueBin,
		DisposalInstructions: []string{
			"Flatten all boxes to save space",
			"Remove any tape, labels, and staples",
			"Keep cardboard dry and clean",
			"Place in blue recycling bin",
		},
		EnvironmentalTip:   "Recycling one ton of cardboard saves 17 trees and 7,000 gallons of water",
		Warnings:           []string{"⚠️ Do not recycle wet or greasy cardboard", "⚠️ Remove all non-cardboard materials"},
		CO2Impact:          1.2,
		EnergyImpact:       3.5,
		WaterImpact:        25,
		PreparationTime:    "2-3 minutes",
		CollectionSchedule: "Weekly pickup - Tuesdays and Fridays",
	},
	{
		ID:           Glass,
		Name:         "Glass",
		Color:        "#06B6D4",
		LightBg:      "#CFFAFE",
		Icon:         "🥃",
		IsRecyclable: true,
		DisposalBin:  blueBin,
		DisposalInstructions: []string{
			"Rinse containers thoroughly",
			"Remove caps and lids",
			"Separate by color if required locally",
			"Place in recycling bin carefully",
		},
		EnvironmentalTip:   "Glass can be recycled endlessly without loss of quality",
		Warnings:           []string{"⚠️ Broken glass should be wrapped in newspaper", "⚠️ Do not mix with ceramics or light bulbs"},
		CO2Impact:          0.8,
		EnergyImpact:       2.8,
		WaterImpact:        15,
		PreparationTime:    "1-2 minutes",
		CollectionSchedule: "Weekly pickup - Wednesdays",
	},
	{
		ID:           Metal,
		Name:         "Metal",
		Color:        "#64748B",
		LightBg:      "#F1F5F9",
		Icon:         "⚙️",
		IsRecyclable: true,
		DisposalBin:  blueBin,
		DisposalInstructions: []string{
			"Rinse cans and containers",
			"Remove labels if possible",
			"Crush cans to save space",
			"Place in recycling bin",
		},
		EnvironmentalTip:   "Recycling aluminum saves 95% of the energy needed to make new cans",
		Warnings:           []string{"⚠️ Check if your facility accepts all metal types"},
		CO2Impact:          1.5,
		EnergyImpact:       4.2,
		WaterImpact:        20,
		PreparationTime:    "1-2 minutes",
		CollectionSchedule: "Weekly pickup - Tuesdays and Fridays",
	},
	{
		ID:           Paper,
		Name:         "Paper",
		Color:        "#3B82F6",
		LightBg:      "#DBEAFE",
		Icon:         "📄",
		IsRecyclable: true,
		DisposalBin:  blueBin,
		DisposalInstructions: []string{
			"Remove any plastic windows from envelopes",
			"Flatten and stack paper",
			"Keep paper dry and clean",
			"Place in recycling bin",
		},
		EnvironmentalTip:   "Recycling paper reduces greenhouse gas emissions and saves landfill space",
		Warnings:           []string{"⚠️ Do not recycle waxed or heavily laminated paper", "⚠️ Shred sensitive documents"},
		CO2Impact:          0.9,
		EnergyImpact:       2.5,
		WaterImpact:        18,
		PreparationTime:    "1 minute",
		CollectionSchedule: "Weekly pickup - Tuesdays and Fridays",
	},
	{
		ID:           Plastic,
		Name:         "Plastic",
		Color:        "#8B5CF6",
		LightBg:      "#EDE9FE",
		Icon:         "♻️",
		IsRecyclable: true,
		DisposalBin:  blueBin,
		DisposalInstructions: []string{
			"Check recycling number (1-7)",
			"Rinse containers thoroughly",
			"Remove caps and labels",
			"Place in recycling bin",
		},
		EnvironmentalTip:   "Recycling plastic saves twice as much energy as burning it",
		Warnings:           []string{"⚠️ Not all plastics are recyclable - check local guidelines", "⚠️ Remove food residue completely"},
		CO2Impact:          1.0,
		EnergyImpact:       3.0,
		WaterImpact:        22,
		PreparationTime:    "2 minutes",
		CollectionSchedule: "Weekly pickup - Tuesdays and Fridays",
	},
	{
		ID:           Battery,
		Name:         "Battery",
		Color:        "#EAB308",
		LightBg:      "#FEF9C3",
		Icon:         "🔋",
		IsRecyclable: true,
		DisposalBin:  "Special Hazardous Waste Collection",
		DisposalInstructions: []string{
			"Do not throw in regular trash",
			"Tape terminals of lithium batteries",
			"Store in cool, dry place until disposal",
			"Take to designated collection center",
		},
		EnvironmentalTip:   "Batteries contain toxic materials that must be handled properly",
		Warnings:           []string{"⚠️ Never incinerate batteries", "⚠️ Keep batteries away from water", "⚠️ Do not mix different battery types"},
		CO2Impact:          0.3,
		EnergyImpact:       1.5,
		WaterImpact:        8,
		PreparationTime:    "Immediate - store safely",
		CollectionSchedule: "Monthly at collection centers",
	},
	{
		ID:           Clothes,
		Name:         "Clothes",
		Color:        "#EC4899",
		LightBg:      "#FCE7F3",
		Icon:         "👕",
		IsRecyclable: true,
		DisposalBin:  textileBin,
		DisposalInstructions: []string{
			"Clean and dry clothes before disposal",
			"Separate usable from damaged items",
			"Donate wearable clothes to charities",
			"Place damaged textiles in textile recycling bin",
		},
		EnvironmentalTip:   "Donating clothes extends their life and reduces textile waste",
		Warnings:           []string{"⚠️ Do not dispose of wet or moldy textiles"},
		CO2Impact:          2.5,
		EnergyImpact:       5.0,
		WaterImpact:        35,
		PreparationTime:    "5 minutes",
		CollectionSchedule: "Donation centers open daily",
	},
	{
		ID:           Organic,
		Name:         "Organic",
		Color:        "#22C55E",
		LightBg:      "#D1FAE5",
		Icon:         "🌱",
		IsRecyclable: true,
		DisposalBin:  "Compost Bin (Green)",
		DisposalInstructions: []string{
			"Separate from any packaging",
			"Chop large pieces into smaller chunks",
			"Place in green compost bin",
			"Cover with brown materials if home composting",
		},
		EnvironmentalTip:   "Perfect for home composting - creates nutrient-rich soil",
		Warnings:           []string{"⚠️ Avoid meat, dairy, and oily foods in home compost"},
		CO2Impact:          0.5,
		EnergyImpact:       1.0,
		WaterImpact:        12,
		PreparationTime:    "Immediate disposal recommended",
		CollectionSchedule: "Daily pickup available",
	},
	{
		ID:           Shoes,
		Name:         "Shoes",
		Color:        "#7C3AED",
		LightBg:      "#EDE9FE",
		Icon:         "👟",
		IsRecyclable: true,
		DisposalBin:  textileBin,
		DisposalInstructions: []string{
			"Clean shoes before disposal",
			"Tie shoes together in pairs",
			"Donate wearable shoes to charities",
			"Take damaged shoes to textile recycling",
		},
		EnvironmentalTip:   "Many shoe brands offer recycling programs for old footwear",
		Warnings:           []string{"⚠️ Remove non-shoe materials before recycling"},
		CO2Impact:          1.8,
		EnergyImpact:       3.8,
		WaterImpact:        28,
		PreparationTime:    "3 minutes",
		CollectionSchedule: "Donation centers and retail drop-offs",
	},
}
