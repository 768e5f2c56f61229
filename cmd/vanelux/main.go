package main

import (
	"os"

	"github.com/Elking123mi/vanelux-web/internal/commands"
)

// version is set via ldflags: -X main.version=v1.0.0
var version = "dev"

//	@title						VaneLux API
//	@version					1.0
//	@description				Authentication and ride bookings for the VaneLux chauffeur service.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	if err := commands.Execute(version); err != nil {
		os.Exit(1)
	}
}
