package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	DeviceHeader = "X-Device-Id"
	deviceIDKey  = "device_id"
)

// DeviceMiddleware identifies the anonymous client for the free-tier
// publish counter. Clients without a device id are keyed by IP.
func DeviceMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deviceID := strings.TrimSpace(c.Request().Header.Get(DeviceHeader))
			if deviceID == "" || len(deviceID) > 128 {
				deviceID = "ip:" + c.RealIP()
			}
			c.Set(deviceIDKey, deviceID)
			return next(c)
		}
	}
}

func DeviceID(c echo.Context) string {
	deviceID, _ := c.Get(deviceIDKey).(string)
	return deviceID
}
