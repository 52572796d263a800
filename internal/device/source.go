package device

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// TemperatureSource yields one temperature per probe read.
// The physical probe wiring is outside this pipeline; anything that can
// produce a Celsius float works.
type TemperatureSource interface {
	Read() (float64, error)
}

// FileSource reads a temperature from a file containing a single number,
// the shape most probe daemons and 1-wire exporters write.
type FileSource struct {
	Path string
}

// Read parses the file content as a Celsius float
func (fs *FileSource) Read() (float64, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read source file: %w", err)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse temperature from %s: %w", fs.Path, err)
	}

	return value, nil
}

// StaticSource returns a fixed temperature. Useful for tests and dry runs.
type StaticSource struct {
	Temperature float64
}

func (ss *StaticSource) Read() (float64, error) {
	return ss.Temperature, nil
}
