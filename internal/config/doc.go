// Package config loads soracore settings.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment (SORA_*)    │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Config file             │  ← .toml, .yaml/.yml or .json
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// A Watcher reloads the file when it changes and publishes the result on an
// event channel.
//
// # Environment
//
// Every field has an environment name built from its section, for example
// SORA_AUDIO_MULTIPLIER or SORA_LOG_LEVEL. Facade policies use
// SORA_POLICIES=op:policy,op:policy.
package config
