// Package config defines the typed parameter record that replaces the
// source system's flat optional-key dictionary, with
// explicit defaults and a schema-validated YAML loader.
package config

import "fmt"

// Config holds every recognized build parameter, with explicit defaults. Zero-valued Config is not generally valid; use Default() or Load().
type Config struct {
	AutoDomain    bool    `yaml:"auto_domain"`
	DomainMargin  float64 `yaml:"domain_margin"`
	X0            float64 `yaml:"x0"`
	Y0            float64 `yaml:"y0"`
	XMin          float64 `yaml:"x_min"`
	YMin          float64 `yaml:"y_min"`
	XMax          float64 `yaml:"x_max"`
	YMax          float64 `yaml:"y_max"`

	ElevationModelResolution float64 `yaml:"elevation_model_resolution"`
	ElevationModelWindowSize int     `yaml:"elevation_model_window_size"`

	OutlierMargin     float64 `yaml:"outlier_margin"`
	OutlierNeighbors  int     `yaml:"outlier_neighbors"`
	RoofOutlierMargin float64 `yaml:"roof_outlier_margin"`

	RANSACOutlierRemover bool    `yaml:"ransac_outlier_remover"`
	RANSACOutlierMargin  float64 `yaml:"ransac_outlier_margin"`
	RANSACIterations     int     `yaml:"ransac_iterations"`

	NaiveVegetationFilter bool `yaml:"naive_vegetation_filter"`

	GroundMargin        float64 `yaml:"ground_margin"`
	MinBuildingDistance float64 `yaml:"min_building_distance"`
	MinBuildingSize     float64 `yaml:"min_building_size"`
	MinBuildingHeight   float64 `yaml:"min_building_height"`
	MinVertexDistance   float64 `yaml:"min_vertex_distance"`
	RoofPercentile      float64 `yaml:"roof_percentile"`

	MeshResolution float64 `yaml:"mesh_resolution"`
	DomainHeight   float64 `yaml:"domain_height"`

	SmoothingMaxIterations     int     `yaml:"smoothing_max_iterations"`
	SmoothingRelativeTolerance float64 `yaml:"smoothing_relative_tolerance"`

	// Workers bounds how many buildings are processed concurrently during
	// point assignment. Workers<=1 keeps the sequential path. The result is
	// identical either way.
	Workers int `yaml:"workers"`
}

// Default returns a Config populated with the documented defaults.
func Default() Config {
	return Config{
		AutoDomain:   true,
		DomainMargin: 10.0,

		ElevationModelResolution: 1.0,
		ElevationModelWindowSize: 3,

		OutlierMargin:     2.0,
		OutlierNeighbors:  5,
		RoofOutlierMargin: 1.5,

		RANSACOutlierRemover: true,
		RANSACOutlierMargin:  3.0,
		RANSACIterations:     250,

		NaiveVegetationFilter: true,

		GroundMargin:        1.0,
		MinBuildingDistance: 1.0,
		MinBuildingSize:     15.0,
		MinBuildingHeight:   2.5,
		MinVertexDistance:   1.0,
		RoofPercentile:      0.9,

		MeshResolution: 10.0,
		DomainHeight:   100.0,

		SmoothingMaxIterations:     500,
		SmoothingRelativeTolerance: 1e-3,

		Workers: 1,
	}
}

// Validate checks the parameter schema: every margin and size must be non-negative, percentiles must
// lie in (0,1], and the manual AABB (when used) must not be inverted.
func (c Config) Validate() error {
	type check struct {
		ok  bool
		msg string
	}
	checks := []check{
		{c.DomainMargin >= 0, "domain_margin must be >= 0"},
		{c.ElevationModelResolution > 0, "elevation_model_resolution must be > 0"},
		{c.ElevationModelWindowSize >= 1, "elevation_model_window_size must be >= 1"},
		{c.OutlierMargin > 0, "outlier_margin must be > 0"},
		{c.OutlierNeighbors >= 1, "outlier_neighbors must be >= 1"},
		{c.RoofOutlierMargin > 0, "roof_outlier_margin must be > 0"},
		{c.RANSACOutlierMargin > 0, "ransac_outlier_margin must be > 0"},
		{c.RANSACIterations >= 1, "ransac_iterations must be >= 1"},
		{c.GroundMargin >= 0, "ground_margin must be >= 0"},
		{c.MinBuildingDistance >= 0, "min_building_distance must be >= 0"},
		{c.MinBuildingSize >= 0, "min_building_size must be >= 0"},
		{c.MinBuildingHeight >= 0, "min_building_height must be >= 0"},
		{c.MinVertexDistance >= 0, "min_vertex_distance must be >= 0"},
		{c.RoofPercentile > 0 && c.RoofPercentile <= 1, "roof_percentile must be in (0,1]"},
		{c.MeshResolution > 0, "mesh_resolution must be > 0"},
		{c.DomainHeight > 0, "domain_height must be > 0"},
		{c.SmoothingMaxIterations >= 1, "smoothing_max_iterations must be >= 1"},
		{c.SmoothingRelativeTolerance > 0, "smoothing_relative_tolerance must be > 0"},
	}
	if !c.AutoDomain {
		checks = append(checks, check{c.XMin < c.XMax && c.YMin < c.YMax, "manual AABB is inverted or empty"})
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("config: %s", chk.msg)
		}
	}
	return nil
}
