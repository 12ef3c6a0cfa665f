package profile

// catalog is loaded once at process start and never mutated.
var catalog = map[string]Profile{
	"PUMP": {
		EquipmentType: "PUMP",
		Features:      []string{"vibration_x", "vibration_y", "temperature", "pressure", "flow_rate"},
		Nominal: map[string]float64{
			"vibration_x": 2.5, "vibration_y": 2.3,
			"temperature": 75.0, "pressure": 15.0, "flow_rate": 100.0,
		},
		FailureThreshold: map[string]float64{
			"vibration_x": 8.0, "vibration_y": 7.5,
			"temperature": 120.0, "pressure": 5.0, "flow_rate": 60.0,
		},
		DriftRate: map[string]float64{
			"vibration_x": 0.005, "vibration_y": 0.004,
			"temperature": 0.01, "pressure": -0.003, "flow_rate": -0.008,
		},
		Volatility: map[string]float64{
			"vibration_x": 0.3, "vibration_y": 0.25,
			"temperature": 1.5, "pressure": 0.5, "flow_rate": 2.0,
		},
		MTBFHours: 4320,
	},
	"COMPRESSOR": {
		EquipmentType: "COMPRESSOR",
		Features:      []string{"vibration_x", "vibration_y", "temperature", "pressure_ratio", "efficiency"},
		Nominal: map[string]float64{
			"vibration_x": 3.0, "vibration_y": 2.8,
			"temperature": 85.0, "pressure_ratio": 3.2, "efficiency": 92.0,
		},
		FailureThreshold: map[string]float64{
			"vibration_x": 10.0, "vibration_y": 9.0,
			"temperature": 140.0, "pressure_ratio": 1.5, "efficiency": 65.0,
		},
		DriftRate: map[string]float64{
			"vibration_x": 0.006, "vibration_y": 0.005,
			"temperature": 0.012, "pressure_ratio": -0.002, "efficiency": -0.01,
		},
		Volatility: map[string]float64{
			"vibration_x": 0.35, "vibration_y": 0.3,
			"temperature": 2.0, "pressure_ratio": 0.15, "efficiency": 1.0,
		},
		MTBFHours: 6720,
	},
	"VALVE": {
		EquipmentType: "VALVE",
		Features:      []string{"position_error", "response_time", "leakage_rate", "actuator_pressure"},
		Nominal: map[string]float64{
			"position_error": 0.5, "response_time": 1.5,
			"leakage_rate": 0.02, "actuator_pressure": 95.0,
		},
		FailureThreshold: map[string]float64{
			"position_error": 5.0, "response_time": 8.0,
			"leakage_rate": 2.0, "actuator_pressure": 50.0,
		},
		DriftRate: map[string]float64{
			"position_error": 0.003, "response_time": 0.004,
			"leakage_rate": 0.002, "actuator_pressure": -0.005,
		},
		Volatility: map[string]float64{
			"position_error": 0.1, "response_time": 0.2,
			"leakage_rate": 0.05, "actuator_pressure": 1.5,
		},
		MTBFHours: 8760,
	},
	"EXCHANGER": {
		EquipmentType: "EXCHANGER",
		Features:      []string{"delta_t", "fouling_factor", "pressure_drop", "flow_rate", "efficiency"},
		Nominal: map[string]float64{
			"delta_t": 45.0, "fouling_factor": 0.001,
			"pressure_drop": 0.5, "flow_rate": 200.0, "efficiency": 95.0,
		},
		FailureThreshold: map[string]float64{
			"delta_t": 15.0, "fouling_factor": 0.01,
			"pressure_drop": 3.0, "flow_rate": 120.0, "efficiency": 70.0,
		},
		DriftRate: map[string]float64{
			"delta_t": -0.008, "fouling_factor": 0.0001,
			"pressure_drop": 0.003, "flow_rate": -0.006, "efficiency": -0.007,
		},
		Volatility: map[string]float64{
			"delta_t": 1.0, "fouling_factor": 0.0005,
			"pressure_drop": 0.1, "flow_rate": 3.0, "efficiency": 0.8,
		},
		MTBFHours: 10080,
	},
	"FURNACE": {
		EquipmentType: "FURNACE",
		Features:      []string{"firebox_temp", "stack_temp", "excess_o2", "draft_pressure", "efficiency"},
		Nominal: map[string]float64{
			"firebox_temp": 850.0, "stack_temp": 180.0,
			"excess_o2": 3.0, "draft_pressure": -0.5, "efficiency": 90.0,
		},
		FailureThreshold: map[string]float64{
			"firebox_temp": 1050.0, "stack_temp": 350.0,
			"excess_o2": 8.0, "draft_pressure": -3.0, "efficiency": 70.0,
		},
		DriftRate: map[string]float64{
			"firebox_temp": 0.015, "stack_temp": 0.02,
			"excess_o2": 0.005, "draft_pressure": -0.002, "efficiency": -0.008,
		},
		Volatility: map[string]float64{
			"firebox_temp": 5.0, "stack_temp": 3.0,
			"excess_o2": 0.3, "draft_pressure": 0.1, "efficiency": 0.5,
		},
		MTBFHours: 5040,
	},
}
