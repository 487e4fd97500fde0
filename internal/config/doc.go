// Package config defines the microbench configuration structure.
//
// Configuration is loaded via internal/infra/confloader with priority
// flags > environment (MICROBENCH_*) > file > defaults:
//
//	bench:
//	  measurement_time: 5s
//	  warm_up_time: 3s
//	  num_samples: 100
//	  num_resamples: 100000
//	  dump_results_to_disk: true
//	  max_iterations: 0
//	compare:
//	  noise_threshold: 1.0
//	  significance_level: 0.05
//	  timing_noise_threshold: 5.0
//	storage:
//	  backend: file
//	  dir: ""
//	metrics:
//	  textfile: ""
//	log:
//	  level: info
//	  format: text
package config
