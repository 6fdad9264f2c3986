/*
Package operations prepares and renders resource operations (start, stop,
monitor and so on).

Prepare runs the pipeline a new resource's operations go through:

 1. normalize enumerated attribute values (role, requires, on-fail,
    record-pending, enabled)
 2. validate every entered operation, reporting values as entered
 3. reject operations of the same name whose intervals are equal in seconds
 4. fill missing intervals and attributes from the agent defaults
 5. append agent defaults the user did not mention, moving colliding
    intervals up one second at a time

All validation reports go through the processor at once, so a caller sees
every problem of a command in one run. Interval uniqueness state lives in a
value owned by a single Prepare call.

CreateOperations renders the result as the operations element of a
primitive, ordered by operation name with attributes in key order.
*/
package operations
