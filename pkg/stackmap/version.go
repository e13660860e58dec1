package stackmap

// Version is the release version reported by the stackmap CLI.
const Version = "0.1.0"
