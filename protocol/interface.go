package protocol

import (
	"github.com/datazip-inc/tap-adjust/drivers/abstract"
)

// Driver is what a source implementation hands to RegisterDriver.
type Driver = abstract.DriverInterface
