/*
Package config loads inkwell settings with Viper.

Settings come from, in increasing precedence: built-in defaults, the TOML
file inkwell.toml (searched in the working directory and then in
$XDG_CONFIG_HOME/inkwell), and INKWELL_ environment variables where dots in
a key become underscores (INKWELL_RELOAD_THROTTLE sets reload.throttle).

	addr = ":8080"
	posts_dir = "posts"

	[site]
	title = "My Blog"
	url = "https://blog.example.com"

	[reload]
	throttle = "10s"
	watch = true
*/
package config
