// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package predict

// SoilTypes are the image classifier's output classes, in output order.
var SoilTypes = []string{"clay", "sandy", "loamy", "silty", "peaty", "chalky"}

// SoilDescriptions describes each soil type.
var SoilDescriptions = map[string]string{
	"clay":   "Heavy soil that retains water well, rich in nutrients",
	"sandy":  "Light soil that drains quickly, warms up fast in spring",
	"loamy":  "Ideal soil with good drainage and moisture retention",
	"silty":  "Smooth soil that retains moisture, fertile but can compact",
	"peaty":  "Acidic soil that retains moisture, rich in organic matter",
	"chalky": "Alkaline soil that is free-draining, low in nutrients",
}

// SoilCrops lists crops suited to each soil type, best first.
var SoilCrops = map[string][]string{
	"clay":   {"Rice", "Wheat", "Cabbage", "Broccoli", "Brussels Sprouts"},
	"sandy":  {"Carrot", "Potato", "Lettuce", "Strawberry", "Radish"},
	"loamy":  {"Tomato", "Corn", "Soybean", "Cotton", "Pepper"},
	"silty":  {"Wheat", "Oats", "Sugar Beet", "Barley", "Cabbage"},
	"peaty":  {"Potato", "Onion", "Carrot", "Lettuce", "Celery"},
	"chalky": {"Spinach", "Beets", "Sweet Corn", "Cabbage", "Lilac"},
}

// CropCategories maps a category key to its display label.
var CropCategories = map[string]string{
	"cereals":    "Cereals (Wheat, Rice, Maize, etc.)",
	"pulses":     "Pulses (Beans, Lentils, Peas, etc.)",
	"vegetables": "Vegetables (Tomato, Potato, Onion, etc.)",
	"fruits":     "Fruits (Apple, Banana, Orange, etc.)",
	"oilseeds":   "Oilseeds (Sunflower, Soybean, Groundnut, etc.)",
	"fiber":      "Fiber Crops (Cotton, Jute, etc.)",
	"plantation": "Plantation Crops (Coffee, Tea, Rubber, etc.)",
}

// SoilTypeDescription returns the description of soilType, or
// "Unknown soil type".
func SoilTypeDescription(soilType string) string {
	if d, ok := SoilDescriptions[soilType]; ok {
		return d
	}
	return "Unknown soil type"
}

// WeatherBandCrops returns the crops suited to a temperature (°C) and
// rainfall (mm) band.
func WeatherBandCrops(temperature, rainfall float64) []string {
	switch {
	case temperature > 28 && rainfall > 150:
		return []string{"Rice", "Sugarcane", "Banana", "Taro", "Watermelon"}
	case temperature >= 22 && temperature <= 28 && rainfall >= 100 && rainfall <= 150:
		return []string{"Cotton", "Maize", "Soybean", "Groundnut", "Sunflower"}
	case temperature >= 15 && temperature <= 22 && rainfall >= 50 && rainfall <= 100:
		return []string{"Wheat", "Barley", "Oats", "Potato", "Peas"}
	case temperature < 15 && rainfall < 50:
		return []string{"Millet", "Sorghum", "Chickpea", "Lentil", "Mustard"}
	default:
		return []string{"Tomato", "Onion", "Chilli", "Brinjal", "Cucumber"}
	}
}
