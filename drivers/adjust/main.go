package main

import (
	tap "github.com/datazip-inc/tap-adjust"
	driver "github.com/datazip-inc/tap-adjust/drivers/adjust/internal"
)

func main() {
	driver := &driver.Adjust{}
	tap.RegisterDriver(driver)
}
