package config

// Starter is written by `logref init`.
const Starter = `# logref configuration
source_dir: src

# Put references into the structured key-value block (ref = N;) instead of
# the message text ([ref: N]).
structured: false

# Skip rescanning files whose content did not change since the last run.
use_cache: true

rust:
  log_macros:
    - module: log
      name: trace
    - module: log
      name: debug
    - module: log
      name: info
    - module: log
      name: warn
    - module: log
      name: error
  extensions: [rs]
`
