package block

// ProcessResult is what Block.Process returns: a Samples result
// carrying per-port consumed/produced counts, the EndOfStream terminal
// signal, or a runtime error (IOError/InvalidArgument) a source or sink
// wants surfaced through stop(). EndOfStream is ordinary control flow,
// never an error; Err is the carrier for the "on error: log, closeWrite
// on all outputs, exit with error surfaced to the graph" path in the
// scheduler's worker loop, since process itself has no separate error
// return in a uniform one-call-per-chunk signature.
type ProcessResult struct {
	EOS      bool
	Consumed []int
	Produced []int
	Err      error
}

// SamplesResult builds a normal (non-EOS, non-error) ProcessResult.
// consumed[i] is the number of elements read from input i this call;
// produced[j] is the number of elements written to output j. Either
// slice may be nil for a block with no inputs or no outputs
// respectively.
func SamplesResult(consumed, produced []int) ProcessResult {
	return ProcessResult{Consumed: consumed, Produced: produced}
}

// EndOfStream is the terminal ProcessResult a source or a worker
// propagating an upstream EOS returns.
func EndOfStream() ProcessResult {
	return ProcessResult{EOS: true}
}

// ProcessError builds a terminal ProcessResult carrying a runtime
// error. The scheduler treats it like EndOfStream for shutdown purposes
// but records err as the worker's failure, surfaced from stop().
func ProcessError(err error) ProcessResult {
	return ProcessResult{EOS: true, Err: err}
}
