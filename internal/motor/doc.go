// Package motor models the electrical and mechanical characteristics of a
// three-phase induction motor.
//
// [Params] holds the nameplate and shaft-system parameters; [NewMachine]
// validates them and derives synchronous speed, rated torque and full-load
// current. [TorqueSlipCurve] is the rational torque-slip characteristic shared
// by every starting method, and [Load] maps instantaneous speed ratio to load
// torque for the three supported load classes.
package motor
