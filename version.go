package scenesmith

// Version is the current release of the scenesmith module.
const Version = "0.3.0"
