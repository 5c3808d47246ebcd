// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver_test

import (
	"testing"

	"github.com/gviegas/ornament/driver"
)

type stubDriver struct{ name string }

func (s *stubDriver) Open() (driver.GPU, error) { return nil, driver.ErrNoDevice }
func (s *stubDriver) Name() string              { return s.name }
func (s *stubDriver) Close()                    {}

func TestRegister(t *testing.T) {
	n := len(driver.Drivers())
	driver.Register(&stubDriver{name: "ornament-test-driver"})
	if len(driver.Drivers()) != n+1 {
		t.Fatalf("Register: Drivers() length\nhave %d\nwant %d", len(driver.Drivers()), n+1)
	}
	// Registering under the same name replaces rather than appends.
	driver.Register(&stubDriver{name: "ornament-test-driver"})
	if len(driver.Drivers()) != n+1 {
		t.Fatalf("Register (replace): Drivers() length\nhave %d\nwant %d", len(driver.Drivers()), n+1)
	}
}
