package directory

import "devicelink/internal/log"

var logger = log.New("directory")
