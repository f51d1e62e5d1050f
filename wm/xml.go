// Package wm implements the window manager registry.
// This file contains the legacy XML import and export.
package wm

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/yllada/wm-properties/common"
)

type xmlPrefs struct {
	XMLName  xml.Name     `xml:"wm-prefs"`
	Managers []xmlManager `xml:"window-manager"`
}

type xmlManager struct {
	DesktopEntry   string  `xml:"desktop-entry,attr"`
	ConfigExec     *string `xml:"config-exec,omitempty"`
	ConfigTryExec  *string `xml:"config-tryexec,omitempty"`
	SessionManaged xmlBool `xml:"session-managed"`
	IsUser         xmlBool `xml:"is-user"`
	IsCurrent      xmlBool `xml:"is-current"`
}

// xmlBool reads "true" in any case as true and everything else as false.
type xmlBool bool

func (b xmlBool) MarshalText() ([]byte, error) {
	return []byte(formatBool(bool(b))), nil
}

func (b *xmlBool) UnmarshalText(text []byte) error {
	*b = xmlBool(strings.EqualFold(strings.TrimSpace(string(text)), "true"))
	return nil
}

// WriteXML serializes the live list in the legacy <wm-prefs> format.
func (r *Registry) WriteXML(w io.Writer) error {
	prefs := xmlPrefs{}
	for _, d := range r.list {
		m := xmlManager{
			DesktopEntry:   d.Location,
			SessionManaged: xmlBool(d.SessionManaged),
			IsUser:         xmlBool(d.IsUser),
			IsCurrent:      xmlBool(d == r.current),
		}
		if d.ConfigExec != "" {
			s := d.ConfigExec
			m.ConfigExec = &s
		}
		if d.ConfigTryExec != "" {
			s := d.ConfigTryExec
			m.ConfigTryExec = &s
		}
		prefs.Managers = append(prefs.Managers, m)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(prefs); err != nil {
		return fmt.Errorf("failed to encode window managers: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ReadXML imports window managers from the legacy <wm-prefs> format.
// Each entry names a desktop file; the XML fields override what the file
// says. Entries whose desktop file is already in the list are not added
// twice. It returns the number of descriptors added.
func (r *Registry) ReadXML(rd io.Reader) (int, error) {
	var prefs xmlPrefs
	if err := xml.NewDecoder(rd).Decode(&prefs); err != nil {
		return 0, fmt.Errorf("failed to decode window managers: %w", err)
	}

	added := 0
	for _, m := range prefs.Managers {
		d := r.descriptorFromXML(m)
		if d == nil {
			continue
		}

		if existing := findByLocation(r.list, d.Location); existing != nil {
			d = existing
		} else {
			r.list = insertSorted(r.list, d)
			added++
		}

		if m.IsCurrent {
			r.current = d
		}
	}
	return added, nil
}

func (r *Registry) descriptorFromXML(m xmlManager) *Descriptor {
	if m.DesktopEntry == "" {
		return nil
	}
	d, err := ReadDesktopFile(m.DesktopEntry)
	if err != nil {
		common.LogDebug("Skipping imported window manager: %v", err)
		return nil
	}

	if m.ConfigExec != nil {
		if common.IsBlank(*m.ConfigExec) {
			return nil
		}
		d.ConfigExec = strings.TrimSpace(*m.ConfigExec)
	}
	if m.ConfigTryExec != nil {
		d.ConfigTryExec = strings.TrimSpace(*m.ConfigTryExec)
	}
	d.SessionManaged = bool(m.SessionManaged)
	d.IsUser = bool(m.IsUser)
	d.CheckPresent(r.lookPath)

	if !d.valid() {
		common.LogDebug("Ignoring imported window manager %q", d.Name)
		return nil
	}
	return d
}

func findByLocation(list []*Descriptor, location string) *Descriptor {
	for _, d := range list {
		if d.Location == location {
			return d
		}
	}
	return nil
}
