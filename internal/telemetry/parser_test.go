package telemetry

import (
	"testing"

	"github.com/Mateuse/Gpu-Monitor/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse_SingleDevice(t *testing.T) {
	parser := NewParser()

	devices, warnings, err := parser.Parse("0, NVIDIA A100, 45, 12, 1024, 40960, 70.5\n")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, devices, 1)

	d := devices[0]
	assert.Equal(t, 0, d.Index)
	assert.Equal(t, "NVIDIA A100", d.Name)
	assert.Equal(t, 45, *d.TemperatureC)
	assert.Equal(t, 12, *d.UtilizationPct)
	assert.Equal(t, 1024, *d.MemoryUsedMB)
	assert.Equal(t, 40960, *d.MemoryTotalMB)
	assert.Equal(t, 70.5, *d.PowerW)
}

func TestParser_Parse_MultipleDevicesPreserveOrder(t *testing.T) {
	parser := NewParser()
	raw := "0, GPU Zero, 40, 5, 100, 8192, 30.0\n" +
		"1, GPU One, 50, 50, 4096, 8192, 120.0\n" +
		"2, GPU Two, 60, 99, 8000, 8192, 250.5\n"

	devices, warnings, err := parser.Parse(raw)

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, devices, 3)
	assert.Equal(t, 0, devices[0].Index)
	assert.Equal(t, 1, devices[1].Index)
	assert.Equal(t, 2, devices[2].Index)
}

func TestParser_Parse_UnavailableFieldsBecomeNil(t *testing.T) {
	parser := NewParser()

	devices, warnings, err := parser.Parse("0, Passive GPU, N/A, [N/A], N/A, 8192, N/A\n")

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, devices, 1)

	d := devices[0]
	assert.Nil(t, d.TemperatureC)
	assert.Nil(t, d.UtilizationPct)
	assert.Nil(t, d.MemoryUsedMB)
	assert.Equal(t, 8192, *d.MemoryTotalMB)
	assert.Nil(t, d.PowerW)
}

func TestParser_Parse_FractionalIntegerFieldTruncates(t *testing.T) {
	parser := NewParser()

	devices, _, err := parser.Parse("0, GPU, 70.9, 12, 1024, 40960, 70.5\n")

	require.NoError(t, err)
	assert.Equal(t, 70, *devices[0].TemperatureC)
}

func TestParser_Parse_BlankLinesSkipped(t *testing.T) {
	parser := NewParser()
	raw := "\n0, GPU, 45, 12, 1024, 40960, 70.5\n\n\n"

	devices, warnings, err := parser.Parse(raw)

	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, devices, 1)
}

func TestParser_Parse_WrongFieldCountDropsLine(t *testing.T) {
	parser := NewParser()
	raw := "0, GPU, 45, 12, 1024, 40960, 70.5\n" +
		"1, GPU, 45, 12\n"

	devices, warnings, err := parser.Parse(raw)

	require.NoError(t, err)
	require.Len(t, devices, 1)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Line)
	assert.Contains(t, warnings[0].Reason, "expected 7 fields")
}

func TestParser_Parse_BadIndexDropsLine(t *testing.T) {
	parser := NewParser()
	raw := "zero, GPU, 45, 12, 1024, 40960, 70.5\n" +
		"-1, GPU, 45, 12, 1024, 40960, 70.5\n" +
		"1, GPU, 45, 12, 1024, 40960, 70.5\n"

	devices, warnings, err := parser.Parse(raw)

	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, 1, devices[0].Index)
	assert.Len(t, warnings, 2)
}

func TestParser_Parse_ReversedMemoryDropsBothFields(t *testing.T) {
	parser := NewParser()

	devices, warnings, err := parser.Parse("0, GPU, 45, 12, 50000, 40960, 70.5\n")

	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Nil(t, devices[0].MemoryUsedMB)
	assert.Nil(t, devices[0].MemoryTotalMB)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Reason, "memory used exceeds memory total")

	_, ok := devices[0].MemoryPct()
	assert.False(t, ok)
}

func TestParser_Parse_EmptyOutput(t *testing.T) {
	parser := NewParser()

	devices, warnings, err := parser.Parse("")

	assert.ErrorIs(t, err, domain.ErrNoValidRecords)
	assert.Nil(t, devices)
	assert.Empty(t, warnings)
}

func TestParser_Parse_NoValidLines(t *testing.T) {
	parser := NewParser()
	raw := "garbage line\nanother, bad\n"

	devices, warnings, err := parser.Parse(raw)

	assert.ErrorIs(t, err, domain.ErrNoValidRecords)
	assert.Nil(t, devices)
	assert.Len(t, warnings, 2)
}

func TestParser_Parse_NameWhitespaceTrimmed(t *testing.T) {
	parser := NewParser()

	devices, _, err := parser.Parse("0,   NVIDIA GeForce RTX 4090  , 45, 12, 1024, 24576, 70.5\n")

	require.NoError(t, err)
	assert.Equal(t, "NVIDIA GeForce RTX 4090", devices[0].Name)
}
