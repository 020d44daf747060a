package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/pipeline"
	"github.com/giovastabile/dtcc-builder/pointcloud"
)

// Reading real-world point-cloud/footprint formats (LAS, shapefile,
// GeoJSON, ...) is explicitly out of scope; these are the baseline
// text adapters the CLI ships so `pipeline.PointCloudReader` and
// `pipeline.FootprintReader` have a runnable implementation. Collaborators
// with a real data source implement the same two interfaces directly.

// xyzReader reads a whitespace-separated point cloud: one point per line,
// `x y z [classification return_number num_returns]`.
type xyzReader struct {
	path string
}

func (r xyzReader) ReadPointCloud() (*pointcloud.PointCloud, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pc := &pointcloud.PointCloud{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%s:%d: expected at least 3 fields, got %d", r.path, lineNo, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", r.path, lineNo, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", r.path, lineNo, err)
		}
		z, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %v", r.path, lineNo, err)
		}
		pc.X = append(pc.X, x)
		pc.Y = append(pc.Y, y)
		pc.Z = append(pc.Z, z)
		if len(fields) >= 6 {
			cls, _ := strconv.Atoi(fields[3])
			ret, _ := strconv.Atoi(fields[4])
			numRet, _ := strconv.Atoi(fields[5])
			pc.Classification = append(pc.Classification, uint8(cls))
			pc.ReturnNumber = append(pc.ReturnNumber, uint8(ret))
			pc.NumReturns = append(pc.NumReturns, uint8(numRet))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return pc, nil
}

// footprintFileEntry is the on-disk shape of one footprint in the JSON
// footprint file.
type footprintFileEntry struct {
	ID    string      `json:"id"`
	Outer [][2]float64 `json:"outer"`
	Holes [][][2]float64 `json:"holes"`
}

// jsonFootprintReader reads a JSON array of footprintFileEntry.
type jsonFootprintReader struct {
	path string
}

func (r jsonFootprintReader) ReadFootprints() ([]pipeline.Footprint, error) {
	buf, err := os.ReadFile(r.path)
	if err != nil {
		return nil, err
	}
	var entries []footprintFileEntry
	if err := json.Unmarshal(buf, &entries); err != nil {
		return nil, err
	}
	out := make([]pipeline.Footprint, len(entries))
	for i, e := range entries {
		out[i] = pipeline.Footprint{
			ID:    e.ID,
			Outer: toRing(e.Outer),
			Holes: toRings(e.Holes),
		}
	}
	return out, nil
}

func toRing(pts [][2]float64) geom.Ring {
	r := make(geom.Ring, len(pts))
	for i, p := range pts {
		r[i] = geom.Point2{X: p[0], Y: p[1]}
	}
	return r
}

func toRings(holes [][][2]float64) []geom.Ring {
	out := make([]geom.Ring, len(holes))
	for i, h := range holes {
		out[i] = toRing(h)
	}
	return out
}
