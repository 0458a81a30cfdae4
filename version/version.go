package version

// Version of the recognition engine, overridden at link time.
var Version = "0.3.0"
