// Package plugins links the compiled-in modules into the binary. Importing it
// registers them with the loader.
package plugins

import (
	_ "github.com/PancyStudios/DiscModGo/internal/plugins/greetings"
	_ "github.com/PancyStudios/DiscModGo/internal/plugins/utils"
)
