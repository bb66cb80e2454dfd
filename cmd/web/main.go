// @title           Heartlink API
// @version         1.0
// @description     Compatibility matching backend (questionnaire scoring and ranked matches).
// @contact.name    Heartlink
// @contact.email   support@heartlink.app
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /api/v1

package main

import "heartlink_backend/internal/app"

func main() {
	app.Run()
}
