package domain

import (
	"errors"
	"time"
)

var ErrEmptyIPAddress = errors.New("device IP address cannot be empty")

// PortService describes one open port and the service detected behind it.
// Stored as a serialized list on the device row; the storage adapter owns
// the encoding.
type PortService struct {
	Port     int    `json:"port"`
	Protocol string `json:"protocol,omitempty"`
	Service  string `json:"service,omitempty"`
	Banner   string `json:"banner,omitempty"`
}

// Device is a host discovered during a scan. Rows are written while the scan
// runs and are immutable history afterward; only its vulnerabilities keep a
// mutable status.
type Device struct {
	ID              uint          `json:"id"`
	ScanID          uint          `json:"scan_id"`
	IPAddress       string        `json:"ip_address"`
	MACAddress      string        `json:"mac_address,omitempty"`
	Hostname        string        `json:"hostname,omitempty"`
	DeviceType      string        `json:"device_type,omitempty"` // router, switch, printer, server, iot, solar, ...
	Manufacturer    string        `json:"manufacturer,omitempty"`
	OS              string        `json:"os,omitempty"`
	FirmwareVersion string        `json:"firmware_version,omitempty"`
	IsVulnerable    bool          `json:"is_vulnerable"`
	IsSolarDevice   bool          `json:"is_solar_device"`
	OpenPorts       []PortService `json:"open_ports,omitempty"`
	LastSeen        time.Time     `json:"last_seen"`
}

// Validate ensures the device entity is in a valid state.
func (d *Device) Validate() error {
	if d.ScanID == 0 {
		return ErrParentMissing
	}
	if d.IPAddress == "" {
		return ErrEmptyIPAddress
	}
	return nil
}

// DeviceFilter narrows device queries. Zero values are ignored.
type DeviceFilter struct {
	ScanID     uint
	DeviceType string
	Vulnerable *bool
	Solar      *bool
	SeenAfter  time.Time
}
