package x11

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgbutil/xprop"
)

// baseDPI is the X11 resolution that corresponds to a scale factor of 1.
const baseDPI = 96.0

// ScaleFactor returns the desktop scale factor derived from the Xft.dpi
// resource. X11 has a single resource database per screen, so the factor is
// the same for every monitor. Returns 1 when the resource is missing.
func (c *Connection) ScaleFactor() float64 {
	resources, err := xprop.PropValStr(xprop.GetProperty(c.XUtil, c.Root, "RESOURCE_MANAGER"))
	if err != nil {
		return 1
	}
	return scaleFromResources(resources)
}

func scaleFromResources(resources string) float64 {
	scanner := bufio.NewScanner(strings.NewReader(resources))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Xft.dpi" {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || dpi <= 0 {
			return 1
		}
		return dpi / baseDPI
	}
	return 1
}
